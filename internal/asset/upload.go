// AngelaMos | 2026
// upload.go

package asset

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/carterperez-dev/templates/catalog-backend/internal/config"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

const sniffLen = 512

type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader

	closer io.Closer
}

func (u *Upload) Ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

func (u *Upload) Close() error {
	if u == nil || u.closer == nil {
		return nil
	}
	return u.closer.Close()
}

// Policy decides which uploads are accepted as product images.
type Policy struct {
	Field      string
	Extensions []string
	MaxBytes   int64
}

func NewPolicy(cfg config.StorageConfig) Policy {
	return Policy{
		Field:      "image",
		Extensions: cfg.AllowedExtensions,
		MaxBytes:   cfg.MaxImageBytes(),
	}
}

// Open checks the header and the sniffed content, and returns an Upload
// positioned at the start of the file. Rejections are 422 field errors.
func (p Policy) Open(fh *multipart.FileHeader) (*Upload, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if !slices.Contains(p.Extensions, ext) {
		return nil, core.FieldError(p.Field, fmt.Sprintf(
			"The %s must be a file of type: %s.", p.Field, strings.Join(p.Extensions, ", "),
		))
	}

	if fh.Size > p.MaxBytes {
		return nil, core.FieldError(p.Field, fmt.Sprintf(
			"The %s must not be greater than %d kilobytes.", p.Field, p.MaxBytes/1024,
		))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, core.InternalError(err, "Failed to read upload")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		_ = f.Close()
		return nil, core.InternalError(err, "Failed to read upload")
	}
	head = head[:n]

	if !isImage(http.DetectContentType(head)) {
		_ = f.Close()
		return nil, core.FieldError(p.Field, fmt.Sprintf("The %s must be an image.", p.Field))
	}

	return &Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  io.MultiReader(bytes.NewReader(head), f),
		closer:   f,
	}, nil
}

func isImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
