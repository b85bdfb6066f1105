package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/ingest"
	"github.com/sheetflow/sheetflow-backend/pkg/queryengine"
	"github.com/sheetflow/sheetflow-backend/pkg/scriptengine"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.QueryService = &queryService{}

type queryService struct {
	maxScriptStatements int
	log                 zerolog.Logger
}

func NewQueryService(maxScriptStatements int, log zerolog.Logger) *queryService {
	return &queryService{
		maxScriptStatements: maxScriptStatements,
		log:                 log,
	}
}

func (s *queryService) Upload(ctx context.Context, filename string, data []byte) (*service.UploadPreview, error) {
	const op errs.Op = "queryService.Upload"

	wb, err := ingest.Parse(filename, data)
	if errs.KindIs(errs.Unsupported, err) {
		return &service.UploadPreview{Error: err.Error()}, nil
	}
	if err != nil {
		return nil, errs.E(op, err)
	}

	first := wb.Sheets[0]
	preview := first.Table.Head(service.PreviewRows)

	return &service.UploadPreview{
		SheetNames:    wb.SheetNames(),
		SelectedSheet: first.Name,
		Columns:       preview.Schema(),
		Data:          preview.Records(),
	}, nil
}

func (s *queryService) PreviewSheet(ctx context.Context, input service.PreviewSheetDto) (*service.SheetPreview, error) {
	const op errs.Op = "queryService.PreviewSheet"

	table, err := ingest.ParseType(input.FileType, input.SheetName, input.FileContent)
	if err != nil {
		return nil, errs.E(op, err)
	}

	preview := table.Head(service.PreviewRows)

	return &service.SheetPreview{
		Columns: preview.Schema(),
		Data:    preview.Records(),
	}, nil
}

func (s *queryService) Transform(ctx context.Context, input service.TransformDto) (*service.QueryResult, error) {
	tables := map[string]*dataframe.Table{
		service.DefaultTableName: dataframe.FromRecords(input.Data),
	}

	return s.execute(ctx, tables, input.Code, input.Mode, "Invalid mode"), nil
}

func (s *queryService) ExecuteQuery(ctx context.Context, input service.ExecuteQueryDto) (*service.QueryResult, error) {
	records := input.Tables
	if records == nil && input.Data != nil {
		// Legacy payload: a single implicit table bound as df.
		records = map[string][]dataframe.Record{service.DefaultTableName: input.Data}
	}
	if len(records) == 0 {
		return &service.QueryResult{Error: "No tables provided"}, nil
	}

	tables := make(map[string]*dataframe.Table, len(records))
	for name, recs := range records {
		tables[name] = dataframe.FromRecords(recs)
	}

	return s.execute(ctx, tables, input.Query, input.Language, "Invalid language"), nil
}

// execute runs code in the requested mode. Execution failures are part of the
// result payload, not transport errors: the caller always gets HTTP 200.
func (s *queryService) execute(ctx context.Context, tables map[string]*dataframe.Table, code, mode, badMode string) *service.QueryResult {
	resolved, ok := executionMode(mode)
	if !ok {
		return &service.QueryResult{Error: badMode}
	}

	var (
		result *dataframe.Table
		err    error
	)
	switch resolved {
	case service.ModeSQL:
		result, err = queryengine.Run(ctx, tables, code)
	case service.ModeScript:
		var out *scriptengine.Result
		out, err = scriptengine.Run(tables, code, s.maxScriptStatements)
		if err == nil {
			result = out.Table
		}
	}
	if err != nil {
		s.log.Info().Err(err).Str("mode", resolved).Msg("execution failed")
		return &service.QueryResult{Error: err.Error()}
	}

	return service.PreviewOf(result)
}

func executionMode(mode string) (string, bool) {
	switch mode {
	case service.ModeSQL:
		return service.ModeSQL, true
	case service.ModeScript, service.ModeScriptLegacy:
		return service.ModeScript, true
	default:
		return "", false
	}
}
