package models

import (
	"time"

	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

// Template is a named, reusable HTML message body with {{...}} placeholders.
// Dispatch requests reference it by Name, not by ID. The Name must be unique
// among active templates; a soft-deleted template frees its name.
type Template struct {
	Base         `bson:",inline"`
	Name         string      `bson:"name" json:"name"` // identifying name
	Description  string      `bson:"description" json:"description"`
	ContentHTML  string      `bson:"content_html" json:"content_html"`
	CredentialID utils.SixID `bson:"credential_id" json:"credential_id"`
	Active       bool        `bson:"active" json:"active"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time  `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}
