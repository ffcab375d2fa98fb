package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/luis-hernandez01/service-notifications/internal/models"
)

const graphScope = "https://graph.microsoft.com/.default"

// GraphTransport delivers mail through a Microsoft 365 hosted mailbox using
// the Graph sendMail endpoint with client-credentials OAuth2.
type GraphTransport struct {
	cred   *models.GraphCredential
	client *http.Client

	// Overridable in tests.
	tokenBaseURL string
	graphBaseURL string
}

func NewGraphTransport(cred *models.GraphCredential) *GraphTransport {
	return &GraphTransport{
		cred:         cred,
		client:       &http.Client{Timeout: 20 * time.Second},
		tokenBaseURL: "https://login.microsoftonline.com",
		graphBaseURL: "https://graph.microsoft.com/v1.0",
	}
}

type oAuthTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphEmailAddress struct {
	Address string `json:"address"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
	IsInline     bool   `json:"isInline,omitempty"`
	ContentID    string `json:"contentId,omitempty"`
}

type graphMessage struct {
	Subject       string            `json:"subject"`
	Body          graphBody         `json:"body"`
	ToRecipients  []graphRecipient  `json:"toRecipients"`
	CcRecipients  []graphRecipient  `json:"ccRecipients,omitempty"`
	BccRecipients []graphRecipient  `json:"bccRecipients,omitempty"`
	Attachments   []graphAttachment `json:"attachments,omitempty"`
}

type graphSendMailPayload struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

func (t *GraphTransport) Send(ctx context.Context, msg *Message) error {
	accessToken, err := t.getAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	toRecipients := []graphRecipient{{EmailAddress: graphEmailAddress{Address: msg.To}}}
	var ccRecipients, bccRecipients []graphRecipient
	for _, cc := range msg.CC {
		ccRecipients = append(ccRecipients, graphRecipient{EmailAddress: graphEmailAddress{Address: cc}})
	}
	for _, bcc := range msg.BCC {
		bccRecipients = append(bccRecipients, graphRecipient{EmailAddress: graphEmailAddress{Address: bcc}})
	}

	var attachments []graphAttachment
	for _, a := range msg.Attachments {
		attachments = append(attachments, graphAttachment{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         a.Name,
			ContentType:  a.ContentType,
			ContentBytes: base64.StdEncoding.EncodeToString(a.Content),
			IsInline:     a.Inline,
			ContentID:    a.ContentID,
		})
	}

	payload := graphSendMailPayload{
		Message: graphMessage{
			Subject:       msg.Subject,
			Body:          graphBody{ContentType: "HTML", Content: msg.HTMLBody},
			ToRecipients:  toRecipients,
			CcRecipients:  ccRecipients,
			BccRecipients: bccRecipients,
			Attachments:   attachments,
		},
		SaveToSentItems: true,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sendMail payload: %w", err)
	}

	sendURL := fmt.Sprintf("%s/users/%s/sendMail", t.graphBaseURL, t.cred.Mailbox)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create sendMail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sendMail: %w", err)
	}
	defer resp.Body.Close()

	// sendMail answers 202 Accepted on success.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendMail failed, status: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (t *GraphTransport) getAccessToken(ctx context.Context) (string, error) {
	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", t.tokenBaseURL, t.cred.TenantID)
	form := url.Values{}
	form.Set("client_id", t.cred.ClientID)
	form.Set("client_secret", t.cred.ClientSecret)
	form.Set("scope", graphScope)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to get token, status: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse oAuthTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access_token")
	}
	return tokenResponse.AccessToken, nil
}
