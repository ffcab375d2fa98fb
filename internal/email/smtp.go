package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/luis-hernandez01/service-notifications/internal/models"
)

// SMTPTransport delivers mail through a plain SMTP relay using net/smtp.
// smtp.SendMail negotiates STARTTLS when the server advertises it.
type SMTPTransport struct {
	cred *models.SMTPCredential
	auth smtp.Auth
	addr string

	// sendMail is swappable in tests.
	sendMail func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPTransport(cred *models.SMTPCredential) *SMTPTransport {
	auth := smtp.PlainAuth("", cred.Username, cred.Password, cred.Host)
	return &SMTPTransport{
		cred:     cred,
		auth:     auth,
		addr:     fmt.Sprintf("%s:%d", cred.Host, cred.Port),
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.cred.Username
	}

	raw, err := BuildMIMEMessage(from, msg)
	if err != nil {
		return fmt.Errorf("failed to build mime message: %w", err)
	}

	recipients := msg.AllRecipients()
	if len(recipients) == 0 {
		return fmt.Errorf("smtp: at least one recipient is required")
	}

	if err := s.sendMail(s.addr, s.auth, from, recipients, raw); err != nil {
		log.Printf("Failed to send email via SMTP to %v: %v", recipients, err)
		return fmt.Errorf("smtp error: %w", err)
	}
	log.Printf("Email sent successfully via SMTP to %v (Subject: %s)", recipients, msg.Subject)
	return nil
}

// BuildMIMEMessage assembles a multipart/related message: an HTML body part,
// inline image parts addressed by Content-ID, then regular attachments.
func BuildMIMEMessage(from string, msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	buf.WriteString("From: " + sanitizeHeader(from) + "\r\n")
	buf.WriteString("To: " + sanitizeHeader(msg.To) + "\r\n")
	if len(msg.CC) > 0 {
		buf.WriteString("Cc: " + sanitizeHeader(strings.Join(msg.CC, ", ")) + "\r\n")
	}
	buf.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	buf.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: multipart/related; boundary=" + writer.Boundary() + "\r\n")
	buf.WriteString("\r\n")

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", "text/html; charset=UTF-8")
	htmlHeader.Set("Content-Transfer-Encoding", "8bit")
	htmlPart, err := writer.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(normalizeCRLF(msg.HTMLBody))); err != nil {
		return nil, fmt.Errorf("failed to write html body: %w", err)
	}

	for _, a := range msg.Attachments {
		header := textproto.MIMEHeader{}
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", fmt.Sprintf("%s; name=%q", contentType, a.Name))
		header.Set("Content-Transfer-Encoding", "base64")
		if a.Inline {
			header.Set("Content-ID", "<"+a.ContentID+">")
			header.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", a.Name))
		} else {
			header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
		}

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part %q: %w", a.Name, err)
		}
		if err := writeBase64(part, a.Content); err != nil {
			return nil, fmt.Errorf("failed to encode attachment %q: %w", a.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize mime message: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBase64 emits base64 content wrapped at 76 characters per line.
func writeBase64(w io.Writer, content []byte) error {
	encoded := base64.StdEncoding.EncodeToString(content)
	const lineLen = 76
	for len(encoded) > 0 {
		n := lineLen
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

func normalizeCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func sanitizeHeader(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}
