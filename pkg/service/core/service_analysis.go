package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/ingest"
	"github.com/sheetflow/sheetflow-backend/pkg/queryengine"
	"github.com/sheetflow/sheetflow-backend/pkg/scriptengine"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.AnalysisService = &analysisService{}

// analysisService reconstructs a workflow's tables from its data_prep blob
// and runs the caller's script over them. The workflow row itself is only
// ever read.
type analysisService struct {
	workflowStorage     service.WorkflowStorage
	uploadStorage       service.UploadStorage
	maxScriptStatements int
	log                 zerolog.Logger
}

func NewAnalysisService(
	workflows service.WorkflowStorage,
	uploads service.UploadStorage,
	maxScriptStatements int,
	log zerolog.Logger,
) *analysisService {
	return &analysisService{
		workflowStorage:     workflows,
		uploadStorage:       uploads,
		maxScriptStatements: maxScriptStatements,
		log:                 log,
	}
}

func (s *analysisService) RunAnalysisScript(ctx context.Context, input service.RunAnalysisDto) (*service.AnalysisResult, error) {
	const op errs.Op = "analysisService.RunAnalysisScript"

	wf, err := s.workflowStorage.GetWorkflow(ctx, input.WorkflowID)
	if errs.KindIs(errs.NotExist, err) || (err == nil && wf.DataPrep == "") {
		return failure(errs.E(op, "Workflow or data not found")), nil
	}
	if err != nil {
		return failure(errs.E(op, err)), nil
	}

	var prep service.DataPrep
	if err := json.Unmarshal([]byte(wf.DataPrep), &prep); err != nil {
		return failure(errs.E(op, fmt.Errorf("parsing data_prep: %w", err))), nil
	}

	sources, err := s.loadSources(ctx, prep.Sources)
	if err != nil {
		return failure(errs.E(op, err)), nil
	}

	tables := s.runSavedQueries(ctx, sources, prep.SavedQueries)

	mode, ok := executionMode(input.ScriptType)
	if !ok {
		return failure(errs.E(op, "Unknown script type")), nil
	}

	switch mode {
	case service.ModeSQL:
		result, err := queryengine.Run(ctx, tables, input.Script)
		if err != nil {
			return failure(errs.E(op, err)), nil
		}
		return &service.AnalysisResult{Result: result.Records()}, nil

	default:
		out, err := scriptengine.Run(tables, input.Script, s.maxScriptStatements)
		if err != nil {
			return failure(errs.E(op, err)), nil
		}
		result := make(map[string][]dataframe.Record, len(out.Scope))
		for name, table := range out.Scope {
			result[name] = table.Records()
		}
		return &service.AnalysisResult{Result: result}, nil
	}
}

// loadSources ingests every referenced upload into its declared table name.
// Sources whose file no longer exists are silently skipped.
func (s *analysisService) loadSources(ctx context.Context, sources []service.Source) (map[string]*dataframe.Table, error) {
	tables := map[string]*dataframe.Table{}

	for _, src := range sources {
		if src.FilePath == "" {
			continue
		}
		if src.TableName == "" {
			return nil, fmt.Errorf("source %q has no table name", src.FilePath)
		}

		data, err := s.uploadStorage.Read(ctx, src.FilePath)
		if errs.KindIs(errs.NotExist, err) {
			s.log.Warn().Str("file", src.FilePath).Msg("skipping source with missing file")
			continue
		}
		if err != nil {
			return nil, err
		}

		wb, err := ingest.Parse(src.FilePath, data)
		if err != nil {
			return nil, fmt.Errorf("parsing source %q: %w", src.FilePath, err)
		}

		// The first sheet carries the source table.
		tables[src.TableName] = wb.Sheets[0].Table
	}

	return tables, nil
}

// runSavedQueries executes the sql-typed saved queries against the source
// tables and binds their outputs alongside the sources. Failing queries are
// skipped; script-typed saved queries are not auto-executed.
func (s *analysisService) runSavedQueries(ctx context.Context, sources map[string]*dataframe.Table, queries []service.SavedQuery) map[string]*dataframe.Table {
	tables := make(map[string]*dataframe.Table, len(sources)+len(queries))
	for name, table := range sources {
		tables[name] = table
	}

	for _, q := range queries {
		if q.Type != service.ModeSQL || q.Name == "" {
			continue
		}
		result, err := queryengine.Run(ctx, sources, q.Query)
		if err != nil {
			s.log.Warn().Err(err).Str("query", q.Name).Msg("skipping failing saved query")
			continue
		}
		tables[q.Name] = result
	}

	return tables
}

func failure(err error) *service.AnalysisResult {
	trace := errs.OpStack(err)
	if trace == nil {
		trace = []string{}
	}
	return &service.AnalysisResult{Error: err.Error(), Trace: trace}
}
