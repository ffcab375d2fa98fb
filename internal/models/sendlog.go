package models

import "time"

// SendStatus is the outcome recorded for one dispatch attempt.
type SendStatus string

const (
	SendStatusPending SendStatus = "PENDIENTE" // pre-attempt state, never persisted on its own
	SendStatusSent    SendStatus = "ENVIADO"
	SendStatusError   SendStatus = "ERROR"
)

// SendLog is the append-only audit record of one dispatch attempt. Exactly one
// row is written per attempt that resolved a template and credential, whether
// the send succeeded or failed.
type SendLog struct {
	Base           `bson:",inline"`
	Recipient      string     `bson:"recipient" json:"recipient"`
	CC             string     `bson:"cc,omitempty" json:"cc,omitempty"`   // ";"-joined
	BCC            string     `bson:"bcc,omitempty" json:"bcc,omitempty"` // ";"-joined
	Attachments    string     `bson:"attachments,omitempty" json:"attachments,omitempty"`
	NumAttachments int        `bson:"num_attachments" json:"num_attachments"`
	Images         string     `bson:"images,omitempty" json:"images,omitempty"` // "cid:path" entries, ";"-joined
	NumImages      int        `bson:"num_images" json:"num_images"`
	Subject        string     `bson:"subject" json:"subject"`
	Content        string     `bson:"content" json:"content"` // rendered HTML, or the raw body on failure
	Status         SendStatus `bson:"status" json:"status"`
	SentAt         time.Time  `bson:"sent_at" json:"sent_at"`
	TemplateName   string     `bson:"template_name" json:"template_name"`
	Detail         string     `bson:"detail" json:"detail"` // success message or exact error string
}
