package service

import (
	"context"
	"encoding/json"
)

type AnalysisService interface {
	RunAnalysisScript(ctx context.Context, input RunAnalysisDto) (*AnalysisResult, error)
}

type RunAnalysisDto struct {
	WorkflowID int64  `json:"workflow_id"`
	Script     string `json:"script"`
	ScriptType string `json:"script_type"`
}

// DataPrep is the typed schema of a workflow's data_prep blob.
type DataPrep struct {
	Sources      []Source     `json:"sources"`
	SavedQueries []SavedQuery `json:"savedQueries"`
}

// Source references an uploaded file and the table name it is loaded under.
type Source struct {
	FilePath  string `json:"filePath"`
	TableName string `json:"tableName"`
}

// SavedQuery is a stored query definition. Only sql-typed saved queries are
// auto-executed before the analysis script runs.
type SavedQuery struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Query string `json:"query"`
}

// AnalysisResult is the outcome of a workflow run: the result payload on
// success, or a message plus operation trace on failure. Both render with
// HTTP 200.
type AnalysisResult struct {
	Result interface{} `json:"result"`
	Error  string      `json:"-"`
	Trace  []string    `json:"-"`
}

func (r *AnalysisResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string   `json:"error"`
			Trace []string `json:"trace"`
		}{Error: r.Error, Trace: r.Trace})
	}
	type alias AnalysisResult
	return json.Marshal((*alias)(r))
}
