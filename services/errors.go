package services

import "errors"

// Sentinel errors mapped to HTTP responses at the handler layer.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadySubmitted = errors.New("draft has already been submitted")
	ErrUploadFailed     = errors.New("file upload returned no id")
	ErrDraftGenerating  = errors.New("draft content is still being generated")
)
