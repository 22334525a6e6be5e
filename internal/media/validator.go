// Package media validates candidate uploads against the acceptance policy
// before any network resource is spent on them.
package media

import (
	"fmt"
	"strings"

	"github.com/HEMANT2027/StreamSightAI/internal/config"
	"github.com/HEMANT2027/StreamSightAI/internal/domain"
)

// Reason classifies why a file was rejected.
type Reason string

const (
	ReasonMissingFile     Reason = "MissingFile"
	ReasonFileTooLarge    Reason = "FileTooLarge"
	ReasonUnsupportedType Reason = "UnsupportedType"
)

// defaultExtensions is the built-in allow-list of video file extensions.
var defaultExtensions = []string{
	".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm", ".mkv", ".m4v",
}

// Result is the outcome of a validation check.
type Result struct {
	OK     bool
	Reason Reason
	Detail string
}

// Validator checks attachments against a static policy. It is a pure
// function of its input and policy: no side effects, no state.
type Validator struct {
	maxBytes    int64
	allowImages bool
	extensions  []string
}

// NewValidator builds a validator from the media policy config.
func NewValidator(cfg config.MediaConfig) *Validator {
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}
	exts := make([]string, 0, len(defaultExtensions)+len(cfg.ExtraExtensions))
	exts = append(exts, defaultExtensions...)
	for _, e := range cfg.ExtraExtensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &Validator{
		maxBytes:    maxBytes,
		allowImages: cfg.AllowImages,
		extensions:  exts,
	}
}

// Validate runs the policy checks in order, short-circuiting on the first
// failure: presence, size ceiling, then type acceptance.
func (v *Validator) Validate(file *domain.Attachment) Result {
	if file == nil || (file.Filename == "" && len(file.Data) == 0 && file.Path == "") {
		return Result{Reason: ReasonMissingFile, Detail: "no file provided"}
	}

	if file.Size > v.maxBytes {
		return Result{
			Reason: ReasonFileTooLarge,
			Detail: fmt.Sprintf("file is %d bytes, limit is %d bytes", file.Size, v.maxBytes),
		}
	}

	if !v.typeAccepted(file) {
		return Result{
			Reason: ReasonUnsupportedType,
			Detail: fmt.Sprintf("unsupported file type %q", file.Filename),
		}
	}

	return Result{OK: true}
}

func (v *Validator) typeAccepted(file *domain.Attachment) bool {
	if strings.HasPrefix(file.MimeType, "video/") {
		return true
	}
	if v.allowImages && strings.HasPrefix(file.MimeType, "image/") {
		return true
	}
	name := strings.ToLower(file.Filename)
	for _, ext := range v.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
