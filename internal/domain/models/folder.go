package models

import (
	"time"
)

type Folder struct {
	ID       string  `json:"id" db:"id"`
	OwnerID  string  `json:"owner_id" db:"owner_id"`
	ParentID *string `json:"parent_id" db:"parent_id"` // NULL = root level
	Name     string  `json:"name" db:"name"`
	// Path is the materialized display path from the root, '/'-separated,
	// always equal to parent.Path + "/" + Name (Name alone at root). It is
	// stored and rewritten on rename/move rather than computed on read.
	Path      string    `json:"path" db:"path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
