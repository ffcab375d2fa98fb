package services

import "fmt"

// ErrNotFound marks lookups for records that do not exist or are inactive.
// Dispatches failing with it leave no send log behind, since nothing was
// attempted yet.
type ErrNotFound struct {
	Resource string
	Key      string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// ErrValidation marks a dispatch rejected on its inputs, such as a malformed
// recipient address.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ErrAttachmentTransfer marks a failure while collecting or relaying
// attachment files before the send.
type ErrAttachmentTransfer struct {
	Path string
	Err  error
}

func (e *ErrAttachmentTransfer) Error() string {
	return fmt.Sprintf("attachment transfer failed for %s: %v", e.Path, e.Err)
}

func (e *ErrAttachmentTransfer) Unwrap() error { return e.Err }

// ErrTransport marks a failure reported by the email transport itself.
type ErrTransport struct {
	Err error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrDuplicateName marks create/update attempts that would reuse an
// identifying name already held by another active record.
type ErrDuplicateName struct {
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("identifying name already in use: %s", e.Name)
}
