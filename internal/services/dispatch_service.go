package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/luis-hernandez01/service-notifications/internal/config"
	"github.com/luis-hernandez01/service-notifications/internal/email"
	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

// IDispatchService runs the end-to-end dispatch pipeline:
// template lookup, credential lookup, render, validate, attach, send, log.
type IDispatchService interface {
	Dispatch(ctx context.Context, req *models.DispatchRequest) (*models.DispatchResult, error)
	// Stop drains the blocking-send worker pool. Called on shutdown.
	Stop()
}

type sendJob struct {
	ctx       context.Context
	transport email.Transport
	msg       *email.Message
	result    chan error
}

type dispatchService struct {
	templates   ITemplateService
	credentials ICredentialService
	sendLogs    ISendLogService
	attachments IAttachmentService
	factory     email.TransportFactory
	cfg         *config.Config
	jobs        chan sendJob
	quit        chan struct{}
}

// NewDispatchService wires the pipeline and starts the worker pool that
// executes blocking transport calls off the request goroutines.
func NewDispatchService(
	cfg *config.Config,
	templates ITemplateService,
	credentials ICredentialService,
	sendLogs ISendLogService,
	attachments IAttachmentService,
	factory email.TransportFactory,
) IDispatchService {
	s := &dispatchService{
		templates:   templates,
		credentials: credentials,
		sendLogs:    sendLogs,
		attachments: attachments,
		factory:     factory,
		cfg:         cfg,
		jobs:        make(chan sendJob),
		quit:        make(chan struct{}),
	}

	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

func (s *dispatchService) worker() {
	for {
		select {
		case job := <-s.jobs:
			job.result <- job.transport.Send(job.ctx, job.msg)
		case <-s.quit:
			return
		}
	}
}

func (s *dispatchService) Stop() {
	close(s.quit)
}

// submitSend hands the blocking transport call to the worker pool and waits
// for its outcome.
func (s *dispatchService) submitSend(ctx context.Context, transport email.Transport, msg *email.Message) error {
	job := sendJob{ctx: ctx, transport: transport, msg: msg, result: make(chan error, 1)}
	select {
	case s.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-job.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch runs one attempt. Template or credential not resolving fails with
// no audit row. Once both resolve, exactly one send log row is written,
// whether the attempt succeeds or fails, and any failure still propagates to
// the caller after it is logged.
func (s *dispatchService) Dispatch(ctx context.Context, req *models.DispatchRequest) (*models.DispatchResult, error) {
	tpl, err := s.templates.FindActiveByName(ctx, req.TemplateName)
	if err != nil {
		return nil, err
	}

	cred, err := s.credentials.FindActiveByID(ctx, tpl.CredentialID)
	if err != nil {
		return nil, err
	}

	content, processed, pipelineErr := s.attempt(ctx, req, tpl, cred)

	entry := s.buildLogEntry(req, tpl, content, processed, pipelineErr)
	if _, logErr := s.sendLogs.Append(ctx, entry); logErr != nil {
		// The audit row must never swallow the pipeline outcome.
		log.Printf("Failed to append send log for template %s: %v", tpl.Name, logErr)
	}

	if pipelineErr != nil {
		return nil, pipelineErr
	}
	return &models.DispatchResult{Status: "processed", To: req.To}, nil
}

// attempt covers the Render through Send states. Every error it returns is
// audited by the caller before propagating.
func (s *dispatchService) attempt(ctx context.Context, req *models.DispatchRequest, tpl *models.Template, cred *models.Credential) (string, *ProcessedAttachments, error) {
	content := RenderTemplate(tpl.ContentHTML, req.Data)

	if !utils.IsValidEmail(req.To) {
		return content, nil, &ErrValidation{Field: "to", Reason: fmt.Sprintf("invalid address: %s", req.To)}
	}
	cc, err := cleanRecipientList("cc", req.CC)
	if err != nil {
		return content, nil, err
	}
	bcc, err := cleanRecipientList("bcc", req.BCC)
	if err != nil {
		return content, nil, err
	}

	processed, err := s.attachments.Process(ctx, req.Attachments, req.ImagesEmbed)
	if err != nil {
		return content, nil, err
	}

	transport, err := s.factory(cred)
	if err != nil {
		return content, processed, err
	}

	msg := &email.Message{
		From:        s.messageFrom(cred),
		To:          req.To,
		CC:          cc,
		BCC:         bcc,
		Subject:     req.Subject,
		HTMLBody:    content,
		Attachments: processed.Attachments,
	}

	if err := s.submitSend(ctx, transport, msg); err != nil {
		return content, processed, &ErrTransport{Err: err}
	}
	return content, processed, nil
}

// messageFrom picks the sender identity the credential implies, falling back
// to the configured default address.
func (s *dispatchService) messageFrom(cred *models.Credential) string {
	switch cred.Kind {
	case models.CredentialKindGraph:
		if cred.Graph != nil && cred.Graph.Mailbox != "" {
			return cred.Graph.Mailbox
		}
	case models.CredentialKindSMTP:
		if cred.SMTP != nil && cred.SMTP.Username != "" {
			return cred.SMTP.Username
		}
	}
	return s.cfg.FromAddress
}

func (s *dispatchService) buildLogEntry(req *models.DispatchRequest, tpl *models.Template, content string, processed *ProcessedAttachments, pipelineErr error) *models.SendLog {
	entry := &models.SendLog{
		Recipient:    req.To,
		CC:           strings.Join(compactList(req.CC), ";"),
		BCC:          strings.Join(compactList(req.BCC), ";"),
		Subject:      req.Subject,
		Content:      content,
		SentAt:       time.Now().UTC(),
		TemplateName: tpl.Name,
	}

	if processed != nil {
		entry.Attachments = strings.Join(processed.SavedPaths, ";")
		entry.NumAttachments = len(processed.SavedPaths)
		entry.Images = strings.Join(processed.ImageRefs, ";")
		entry.NumImages = len(processed.ImageRefs)
	} else {
		// Failure before the attach state completed: record the requested
		// references so the error row still names the intended payload.
		requested := make([]string, 0, len(req.Attachments))
		for _, ref := range req.Attachments {
			if ref.Path != "" {
				requested = append(requested, ref.Path)
			} else {
				requested = append(requested, ref.Filename)
			}
		}
		entry.Attachments = strings.Join(requested, ";")
		entry.NumAttachments = len(requested)

		cids := make([]string, 0, len(req.ImagesEmbed))
		for cid := range req.ImagesEmbed {
			cids = append(cids, cid)
		}
		sort.Strings(cids)
		imageRefs := make([]string, 0, len(cids))
		for _, cid := range cids {
			imageRefs = append(imageRefs, fmt.Sprintf("%s:%s", cid, req.ImagesEmbed[cid]))
		}
		entry.Images = strings.Join(imageRefs, ";")
		entry.NumImages = len(imageRefs)
	}

	if pipelineErr != nil {
		entry.Status = models.SendStatusError
		entry.Detail = pipelineErr.Error()
	} else {
		entry.Status = models.SendStatusSent
		entry.Detail = "sent successfully"
	}
	return entry
}

// cleanRecipientList drops blank entries and validates the rest.
func cleanRecipientList(field string, addresses []string) ([]string, error) {
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		trimmed := strings.TrimSpace(addr)
		if trimmed == "" {
			continue
		}
		if !utils.IsValidEmail(trimmed) {
			return nil, &ErrValidation{Field: field, Reason: fmt.Sprintf("invalid address: %s", trimmed)}
		}
		out = append(out, trimmed)
	}
	return out, nil
}

func compactList(addresses []string) []string {
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if strings.TrimSpace(addr) != "" {
			out = append(out, strings.TrimSpace(addr))
		}
	}
	return out
}
