package domain

// Attachment is a candidate media file for analysis. Data holds the payload
// for in-memory submissions; Path points at a file on disk when the payload
// should be streamed instead. Exactly one of the two is expected to be set.
type Attachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Path     string `json:"-"`
	Data     []byte `json:"-"`
}

// AttachmentMeta is the descriptive subset of an attachment that is safe to
// export or display: never the payload itself.
type AttachmentMeta struct {
	Filename string `json:"name"`
	MimeType string `json:"type"`
	Size     int64  `json:"size"`
}

// Meta strips the payload from an attachment.
func (a Attachment) Meta() AttachmentMeta {
	return AttachmentMeta{Filename: a.Filename, MimeType: a.MimeType, Size: a.Size}
}
