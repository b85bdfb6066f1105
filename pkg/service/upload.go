package service

import "context"

// UploadStorage persists raw uploaded file bytes under a flat namespace.
// Saving an existing filename silently overwrites it.
type UploadStorage interface {
	Save(ctx context.Context, filename string, data []byte) error
	Read(ctx context.Context, filename string) ([]byte, error)
}

type UploadService interface {
	SaveSpreadsheet(ctx context.Context, filename string, data []byte) (*UploadResponse, error)
	GetSpreadsheet(ctx context.Context, filename string) ([]byte, error)
}

type UploadResponse struct {
	Path string `json:"path"`
}
