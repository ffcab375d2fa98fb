package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luis-hernandez01/service-notifications/internal/config"
	"github.com/luis-hernandez01/service-notifications/internal/email"
	"github.com/luis-hernandez01/service-notifications/internal/models"
)

// ProcessedAttachments is the attachment handler's output: the parts ready
// for the transport plus the ordered audit references. SavedPaths order
// matches the order attachments were supplied, and equals what gets attached.
type ProcessedAttachments struct {
	Attachments []email.Attachment
	SavedPaths  []string
	ImageRefs   []string // "cid:path" pairs for the audit row
}

// IAttachmentService prepares dispatch attachments and embedded images.
type IAttachmentService interface {
	Process(ctx context.Context, refs []models.AttachmentRef, images map[string]string) (*ProcessedAttachments, error)
}

type attachmentService struct {
	cfg    *config.Config
	client *http.Client
}

func NewAttachmentService(cfg *config.Config) IAttachmentService {
	return &attachmentService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.StorageApiTimeout},
	}
}

// relayEnabled reports whether the remote upload collaborator is configured.
// In relay mode an unreadable attachment aborts the whole dispatch.
func (s *attachmentService) relayEnabled() bool {
	return s.cfg.StorageApiURL != ""
}

func (s *attachmentService) Process(ctx context.Context, refs []models.AttachmentRef, images map[string]string) (*ProcessedAttachments, error) {
	result := &ProcessedAttachments{}

	dateDir := filepath.Join(s.cfg.AttachmentDir, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory %s: %w", dateDir, err)
	}

	for _, ref := range refs {
		name := ref.Filename
		content := ref.Content

		if !ref.IsUpload() {
			if name == "" {
				name = filepath.Base(ref.Path)
			}
			data, err := os.ReadFile(ref.Path)
			if err != nil {
				if s.relayEnabled() {
					return nil, &ErrAttachmentTransfer{Path: ref.Path, Err: err}
				}
				log.Printf("Attachment %s could not be read, skipping: %v", ref.Path, err)
				continue
			}
			content = data
		}

		contentType := ref.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(name))
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		savedPath, err := saveWithCollisionSuffix(dateDir, name, content)
		if err != nil {
			return nil, &ErrAttachmentTransfer{Path: name, Err: err}
		}

		if s.relayEnabled() {
			remotePath, err := s.relayUpload(ctx, name, contentType, content)
			if err != nil {
				return nil, err
			}
			if remotePath != "" {
				savedPath = remotePath
			}
		}

		result.Attachments = append(result.Attachments, email.Attachment{
			Name:        filepath.Base(savedPath),
			Content:     content,
			ContentType: contentType,
		})
		result.SavedPaths = append(result.SavedPaths, savedPath)
	}

	for cid, path := range images {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Embedded image %s could not be read, skipping: %v", path, err)
			continue
		}

		name := filepath.Base(path)
		if cid == "" {
			cid = strings.TrimSuffix(name, filepath.Ext(name))
		}
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		result.Attachments = append(result.Attachments, email.Attachment{
			Name:        name,
			Content:     data,
			ContentType: contentType,
			Inline:      true,
			ContentID:   cid,
		})
		result.ImageRefs = append(result.ImageRefs, fmt.Sprintf("%s:%s", cid, path))
	}

	return result, nil
}

// saveWithCollisionSuffix writes the attachment copy into the date partition.
// An already-existing destination filename gets a uuid disambiguator so
// concurrent dispatches never overwrite each other's copies.
func saveWithCollisionSuffix(dir, name string, content []byte) (string, error) {
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(dir, fmt.Sprintf("%s_%s", uuid.NewString()[:8], name))
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save attachment copy %s: %w", dest, err)
	}
	return dest, nil
}

// relayUpload forwards one attachment to the remote upload collaborator.
// Any response outside 2xx aborts the dispatch. The collaborator may answer
// with a "ruta" field naming the remote path.
func (s *attachmentService) relayUpload(ctx context.Context, name, contentType string, content []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", &ErrAttachmentTransfer{Path: name, Err: err}
	}
	if _, err := part.Write(content); err != nil {
		return "", &ErrAttachmentTransfer{Path: name, Err: err}
	}
	if err := writer.WriteField("container", s.cfg.StorageContainer); err != nil {
		return "", &ErrAttachmentTransfer{Path: name, Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &ErrAttachmentTransfer{Path: name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.StorageApiURL, &body)
	if err != nil {
		return "", &ErrAttachmentTransfer{Path: name, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.cfg.StorageApiToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.StorageApiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &ErrAttachmentTransfer{Path: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &ErrAttachmentTransfer{
			Path: name,
			Err:  fmt.Errorf("upload collaborator returned status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var uploadResp struct {
		Ruta string `json:"ruta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		// A body without the optional ruta field is still a success.
		return "", nil
	}
	return uploadResp.Ruta, nil
}
