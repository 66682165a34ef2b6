package models

// StorageTier identifies where a document's bytes live.
type StorageTier string

const (
	TierObjectStore StorageTier = "OBJECT_STORE"
	TierFilesystem  StorageTier = "FILESYSTEM"
	// TierNone marks a degraded record: the upload succeeded at the metadata
	// level but no tier durably stored the bytes. Surfaced, never hidden.
	TierNone StorageTier = "NONE"
)

// StorageReference is the tagged reference to a document's stored bytes.
// Exactly one of Key or Path is meaningful depending on Tier.
type StorageReference struct {
	Tier StorageTier `json:"tier"`
	Key  string      `json:"key,omitempty"`  // object store key
	Path string      `json:"path,omitempty"` // filesystem path
}

// Durable reports whether the reference points at a real storage tier.
func (r StorageReference) Durable() bool {
	return r.Tier != TierNone && r.Tier != ""
}
