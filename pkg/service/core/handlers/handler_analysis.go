package handlers

import (
	"context"
	"net/http"

	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

type analysisHandler struct {
	analysisService service.AnalysisService
}

func NewAnalysisHandler(s service.AnalysisService) *analysisHandler {
	return &analysisHandler{analysisService: s}
}

func (h *analysisHandler) RunAnalysisScript(ctx context.Context, _ *http.Request, in service.RunAnalysisDto) (*service.AnalysisResult, error) {
	return h.analysisService.RunAnalysisScript(ctx, in)
}
