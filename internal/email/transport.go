package email

import (
	"context"
	"fmt"

	"github.com/luis-hernandez01/service-notifications/internal/models"
)

// Attachment is one file carried by an outgoing message. Inline attachments
// are referenced from the HTML body via cid: URLs using ContentID.
type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
	Inline      bool
	ContentID   string
}

// Message is a fully-assembled outgoing email, ready for a transport.
type Message struct {
	From        string
	To          string
	CC          []string
	BCC         []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// AllRecipients returns to+cc+bcc, in that order, skipping blanks.
func (m *Message) AllRecipients() []string {
	out := make([]string, 0, 1+len(m.CC)+len(m.BCC))
	if m.To != "" {
		out = append(out, m.To)
	}
	for _, cc := range m.CC {
		if cc != "" {
			out = append(out, cc)
		}
	}
	for _, bcc := range m.BCC {
		if bcc != "" {
			out = append(out, bcc)
		}
	}
	return out
}

// Transport sends a composed message. Implementations are bound to one
// credential record and may block; the dispatch orchestrator runs Send on a
// worker pool so concurrent dispatches are not stalled.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// TransportFactory builds a Transport for the given credential. The dispatch
// orchestrator calls it once per dispatch, after the credential lookup.
type TransportFactory func(cred *models.Credential) (Transport, error)

// NewTransport selects the transport variant from the credential's Kind.
func NewTransport(cred *models.Credential) (Transport, error) {
	switch cred.Kind {
	case models.CredentialKindGraph:
		if cred.Graph == nil {
			return nil, fmt.Errorf("credential %s has kind %q but no graph fields", cred.ID.String(), cred.Kind)
		}
		return NewGraphTransport(cred.Graph), nil
	case models.CredentialKindSMTP:
		if cred.SMTP == nil {
			return nil, fmt.Errorf("credential %s has kind %q but no smtp fields", cred.ID.String(), cred.Kind)
		}
		return NewSMTPTransport(cred.SMTP), nil
	default:
		return nil, fmt.Errorf("unknown credential kind: %q", cred.Kind)
	}
}
