package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type uploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(s service.UploadService) *uploadHandler {
	return &uploadHandler{uploadService: s}
}

func (h *uploadHandler) UploadExcel(ctx context.Context, r *http.Request, _ any) (*service.UploadResponse, error) {
	const op errs.Op = "uploadHandler.UploadExcel"

	filename, data, err := fileFromRequest(r)
	if err != nil {
		return nil, errs.E(op, errs.InvalidRequest, errs.Parameter("file"), err)
	}

	return h.uploadService.SaveSpreadsheet(ctx, filename, data)
}

func (h *uploadHandler) DownloadExcel(ctx context.Context, _ *http.Request, _ any) (*download, error) {
	const op errs.Op = "uploadHandler.DownloadExcel"

	filename := chi.URLParamFromCtx(ctx, "filename")

	data, err := h.uploadService.GetSpreadsheet(ctx, filename)
	if errs.KindIs(errs.NotExist, err) {
		// The frontend expects a JSON error body with 200 here, not a 404.
		return &download{errMessage: err.Error()}, nil
	}
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &download{filename: filename, data: data}, nil
}

// download streams file bytes, or renders {"error": …} when the file is
// absent.
type download struct {
	filename   string
	data       []byte
	errMessage string
}

var _ transport.Encoder = &download{}

func (d *download) Encode(w http.ResponseWriter) error {
	if d.errMessage != "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		return json.NewEncoder(w).Encode(errs.ErrResponse{Error: d.errMessage})
	}

	return transport.NewByteWriter(xlsxContentType, d.filename, d.data).Encode(w)
}
