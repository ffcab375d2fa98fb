package models

import "time"

// CredentialKind discriminates which transport a Credential configures.
type CredentialKind string

const (
	// CredentialKindGraph holds application credentials for a hosted mailbox
	// (Microsoft Graph sendMail with client-credentials auth).
	CredentialKindGraph CredentialKind = "graph"
	// CredentialKindSMTP holds classic SMTP server credentials.
	CredentialKindSMTP CredentialKind = "smtp"
)

// GraphCredential carries the fields consumed by the hosted-mailbox transport.
type GraphCredential struct {
	ClientID     string `bson:"client_id" json:"client_id"`
	ClientSecret string `bson:"client_secret" json:"client_secret"`
	TenantID     string `bson:"tenant_id" json:"tenant_id"`
	Mailbox      string `bson:"mailbox" json:"mailbox"` // sending account, e.g. notifications@tenant.com
}

// SMTPCredential carries the fields consumed by the SMTP transport.
type SMTPCredential struct {
	Host     string `bson:"host" json:"host"`
	Port     int    `bson:"port" json:"port"`
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"password"`
}

// Credential is one stored transport configuration, referenced by Templates.
// Exactly one of Graph/SMTP is set, according to Kind. Records are never
// physically removed: DeleteCredential flips Active and stamps DeletedAt.
type Credential struct {
	Base      `bson:",inline"`
	Kind      CredentialKind   `bson:"kind" json:"kind"`
	Graph     *GraphCredential `bson:"graph,omitempty" json:"graph,omitempty"`
	SMTP      *SMTPCredential  `bson:"smtp,omitempty" json:"smtp,omitempty"`
	Active    bool             `bson:"active" json:"active"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time       `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}
