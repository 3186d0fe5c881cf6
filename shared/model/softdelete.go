package model

import "time"

// SoftDelete marks rows as removed without losing them. Every domain table
// embeds it; the shared repository excludes flagged rows from reads unless a
// filter explicitly opts in.
type SoftDelete struct {
	IsDeleted bool       `db:"is_deleted" json:"is_deleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
