package models

// AttachmentRef is one attachment in a dispatch request. Either Path points at
// a file on the local filesystem, or Content carries an uploaded binary with
// its original filename and declared content type.
type AttachmentRef struct {
	Path        string `json:"path,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content,omitempty"`
}

// IsUpload reports whether the reference carries uploaded binary content
// rather than a filesystem path.
func (a AttachmentRef) IsUpload() bool {
	return a.Path == ""
}

// DispatchRequest is the transient input of one dispatch. Data is either a
// plain string or a structured mapping of arbitrary depth (decoded JSON).
// Blank cc/bcc entries are tolerated and skipped. ImagesEmbed maps a
// Content-ID to an image path so the HTML body can reference it via cid: URLs.
type DispatchRequest struct {
	TemplateName string            `json:"identifying_name" binding:"required"`
	To           string            `json:"to" binding:"required"`
	CC           []string          `json:"cc,omitempty"`
	BCC          []string          `json:"bcc,omitempty"`
	Subject      string            `json:"subject"`
	Data         interface{}       `json:"data,omitempty"`
	Attachments  []AttachmentRef   `json:"attachments,omitempty"`
	ImagesEmbed  map[string]string `json:"images_embed,omitempty"`
}

// DispatchResult is returned to the caller when a dispatch reaches the Send
// state successfully. Failures surface as errors, not as a result value.
type DispatchResult struct {
	Status string `json:"status"`
	To     string `json:"to"`
}
