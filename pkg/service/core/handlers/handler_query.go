package handlers

import (
	"context"
	"net/http"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

type queryHandler struct {
	queryService service.QueryService
}

func NewQueryHandler(s service.QueryService) *queryHandler {
	return &queryHandler{queryService: s}
}

func (h *queryHandler) Upload(ctx context.Context, r *http.Request, _ any) (*service.UploadPreview, error) {
	const op errs.Op = "queryHandler.Upload"

	filename, data, err := fileFromRequest(r)
	if err != nil {
		return nil, errs.E(op, errs.InvalidRequest, errs.Parameter("file"), err)
	}

	return h.queryService.Upload(ctx, filename, data)
}

func (h *queryHandler) PreviewSheet(ctx context.Context, _ *http.Request, in service.PreviewSheetDto) (*service.SheetPreview, error) {
	return h.queryService.PreviewSheet(ctx, in)
}

func (h *queryHandler) Transform(ctx context.Context, _ *http.Request, in service.TransformDto) (*service.QueryResult, error) {
	return h.queryService.Transform(ctx, in)
}

func (h *queryHandler) ExecuteQuery(ctx context.Context, _ *http.Request, in service.ExecuteQueryDto) (*service.QueryResult, error) {
	return h.queryService.ExecuteQuery(ctx, in)
}
