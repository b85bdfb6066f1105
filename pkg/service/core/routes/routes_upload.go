package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

type UploadEndpoints struct {
	UploadExcel   http.HandlerFunc
	DownloadExcel http.HandlerFunc
}

func NewUploadEndpoints(log zerolog.Logger, h *handlers.Handlers) *UploadEndpoints {
	return &UploadEndpoints{
		UploadExcel:   transport.For(h.UploadHandler.UploadExcel).Build(log),
		DownloadExcel: transport.For(h.UploadHandler.DownloadExcel).Build(log),
	}
}

func NewUploadRoutes(endpoints *UploadEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Post("/upload_excel", endpoints.UploadExcel)
		router.Get("/download_excel/{filename}", endpoints.DownloadExcel)
	}
}
