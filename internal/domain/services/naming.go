package services

import "context"

// NameSuggestion is the external naming collaborator's answer.
type NameSuggestion struct {
	DisplayName string `json:"display_name"`
	PageCount   *int   `json:"page_count,omitempty"`
}

// NamingService is the external "intelligent naming" collaborator. It is
// strictly best-effort: unavailability or timeout must never block an upload.
type NamingService interface {
	SuggestName(ctx context.Context, fileBytes []byte, originalName, ownerToken string) (*NameSuggestion, error)
}
