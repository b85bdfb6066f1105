package core

import (
	"context"
	"path"
	"path/filepath"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.UploadService = &uploadService{}

type uploadService struct {
	uploadStorage service.UploadStorage
}

func NewUploadService(storage service.UploadStorage) *uploadService {
	return &uploadService{uploadStorage: storage}
}

func (s *uploadService) SaveSpreadsheet(ctx context.Context, filename string, data []byte) (*service.UploadResponse, error) {
	const op errs.Op = "uploadService.SaveSpreadsheet"

	if err := s.uploadStorage.Save(ctx, filename, data); err != nil {
		return nil, errs.E(op, err)
	}

	return &service.UploadResponse{
		Path: path.Join("uploads", filepath.Base(filename)),
	}, nil
}

func (s *uploadService) GetSpreadsheet(ctx context.Context, filename string) ([]byte, error) {
	const op errs.Op = "uploadService.GetSpreadsheet"

	data, err := s.uploadStorage.Read(ctx, filename)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return data, nil
}
