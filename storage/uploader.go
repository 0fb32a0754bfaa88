package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// Uploader кладет объекты в хранилище по ключу и отдает их публичный адрес.
type Uploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (*UploadResult, error)
	PublicURL(key string) string
}

// NoopUploader используется, когда хранилище не настроено: данные читаются и отбрасываются.
type NoopUploader struct{}

func (NoopUploader) Upload(_ context.Context, key string, _ string, body io.Reader) (*UploadResult, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	return &UploadResult{Key: key}, nil
}

func (NoopUploader) PublicURL(string) string { return "" }
