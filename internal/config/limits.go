package config

const (
	// MaxDocumentNameLength is the maximum length for document display names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxDocumentNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as document names for consistency.
	MaxFolderNameLength = 255

	// MaxFolderPathLength is the maximum length for full materialized paths.
	// Longer paths indicate overly deep hierarchies (anti-pattern).
	MaxFolderPathLength = 500

	// MaxUploadSizeBytes is the maximum accepted upload size (50 MB).
	MaxUploadSizeBytes = 50 << 20
)

// ForbiddenNameChars are the characters rejected in folder and document
// names. The set matches what common client filesystems refuse.
const ForbiddenNameChars = `<>:"/\|?*`

// AllowedMimeTypes is the upload allow-list.
var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}
