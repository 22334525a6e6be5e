package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/HEMANT2027/StreamSightAI/internal/domain"
)

// loadAttachment builds an attachment from a file on disk. The payload is
// left on disk and streamed at submit time.
func loadAttachment(path string) (*domain.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &domain.Attachment{
		Filename: filepath.Base(path),
		MimeType: mimeType,
		Size:     info.Size(),
		Path:     path,
	}, nil
}
