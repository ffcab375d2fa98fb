package email

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileTransport implements Transport by appending outgoing messages to a file.
// Enabled alongside the real transport when LOG_EMAILS is set, so every
// dispatch leaves a local copy for inspection.
type FileTransport struct {
	filePath string
}

// NewFileTransport creates a FileTransport, ensuring the log directory exists.
func NewFileTransport(filePath string) (*FileTransport, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("email log file path cannot be empty")
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for email log file '%s': %w", dir, err)
	}

	return &FileTransport{filePath: filePath}, nil
}

// Send appends the message details and HTML body to the configured file.
func (t *FileTransport) Send(ctx context.Context, msg *Message) error {
	timestamp := time.Now().Format(time.RFC3339Nano)

	file, err := os.OpenFile(t.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("FileTransport: Failed to open log file '%s': %v", t.filePath, err)
		return fmt.Errorf("failed to open email log file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("--- Email Logged at %s (To: %s, Subject: %s) ---\n", timestamp, msg.To, msg.Subject))
	if len(msg.CC) > 0 {
		sb.WriteString(fmt.Sprintf("Cc: %s\n", strings.Join(msg.CC, ", ")))
	}
	if len(msg.BCC) > 0 {
		sb.WriteString(fmt.Sprintf("Bcc: %s\n", strings.Join(msg.BCC, ", ")))
	}
	for _, a := range msg.Attachments {
		sb.WriteString(fmt.Sprintf("Attachment: %s (%d bytes, inline=%v)\n", a.Name, len(a.Content), a.Inline))
	}
	sb.WriteString(msg.HTMLBody)
	sb.WriteString("\n--- End Logged Email ---\n\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		log.Printf("FileTransport: Failed to write to log file '%s': %v", t.filePath, err)
		return fmt.Errorf("failed to write email to log file: %w", err)
	}

	log.Printf("FileTransport: Email to %s (Subject: %s) logged to %s", msg.To, msg.Subject, t.filePath)
	return nil
}
