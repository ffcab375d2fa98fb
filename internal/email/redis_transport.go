package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockEmailTTL bounds how long captured emails stay available to the
// service API's retrieval endpoint.
const mockEmailTTL = 5 * time.Minute

// MockEmailKey is the Redis key a captured email is stored under.
func MockEmailKey(to string) string {
	return fmt.Sprintf("mockemail:%s", to)
}

// RedisTransport implements Transport by capturing emails in Redis instead of
// delivering them. Used when MOCK_SERVICES is enabled so integration tests can
// read back what would have been sent.
type RedisTransport struct {
	client *redis.Client
}

func NewRedisTransport(client *redis.Client) *RedisTransport {
	return &RedisTransport{client: client}
}

// Send stores a JSON representation of the email under a key derived from the
// primary recipient.
func (t *RedisTransport) Send(ctx context.Context, msg *Message) error {
	attachmentNames := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachmentNames = append(attachmentNames, a.Name)
	}

	emailData := map[string]interface{}{
		"to":          msg.To,
		"cc":          strings.Join(msg.CC, ", "),
		"bcc":         strings.Join(msg.BCC, ", "),
		"from":        msg.From,
		"subject":     msg.Subject,
		"body":        msg.HTMLBody,
		"attachments": attachmentNames,
		"sent_at":     time.Now().UTC().Format(time.RFC3339Nano),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	key := MockEmailKey(msg.To)
	if err := t.client.Set(ctx, key, jsonData, mockEmailTTL).Err(); err != nil {
		return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
	}

	log.Printf("Mock email stored in Redis key '%s' (TTL: %v, Subject: %s)", key, mockEmailTTL, msg.Subject)
	return nil
}
