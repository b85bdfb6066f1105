package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
)

// Execution modes. "python" is kept as the legacy wire name of script mode;
// the scripts themselves run in the restricted pipeline dialect.
const (
	ModeSQL          = "sql"
	ModeScript       = "script"
	ModeScriptLegacy = "python"
)

// DefaultTableName is the binding for the implicit single table of the
// legacy execute-query payload and of /transform.
const DefaultTableName = "df"

type QueryService interface {
	Upload(ctx context.Context, filename string, data []byte) (*UploadPreview, error)
	PreviewSheet(ctx context.Context, input PreviewSheetDto) (*SheetPreview, error)
	Transform(ctx context.Context, input TransformDto) (*QueryResult, error)
	ExecuteQuery(ctx context.Context, input ExecuteQueryDto) (*QueryResult, error)
}

// ByteContent accepts both of the frontend's encodings of raw file bytes: a
// JSON array of numbers (Uint8Array spread) and a base64 string.
type ByteContent []byte

func (b *ByteContent) UnmarshalJSON(data []byte) error {
	var nums []uint8Number
	if err := json.Unmarshal(data, &nums); err == nil {
		out := make([]byte, len(nums))
		for i, n := range nums {
			out[i] = byte(n)
		}
		*b = out
		return nil
	}

	var s []byte
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("file_content must be a byte array or base64 string: %w", err)
	}
	*b = s
	return nil
}

type uint8Number float64

func (n *uint8Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f < 0 || f > 255 {
		return fmt.Errorf("byte value %v out of range", f)
	}
	*n = uint8Number(f)
	return nil
}

type PreviewSheetDto struct {
	FileContent ByteContent `json:"file_content"`
	SheetName   string      `json:"sheet_name"`
	FileType    string      `json:"file_type"`
}

type TransformDto struct {
	Data []dataframe.Record `json:"data"`
	Code string             `json:"code"`
	Mode string             `json:"mode"`
}

type ExecuteQueryDto struct {
	Query    string                        `json:"query"`
	Language string                        `json:"language"`
	Tables   map[string][]dataframe.Record `json:"tables"`
	// Data is the legacy single-table payload, bound as df.
	Data []dataframe.Record `json:"data"`
}

// UploadPreview describes an uploaded workbook: all sheet names plus the
// first sheet's schema and a row preview. Failure renders as {"error": …}
// with HTTP 200, matching the frontend's expectations.
type UploadPreview struct {
	SheetNames    []string               `json:"sheet_names"`
	SelectedSheet string                 `json:"selected_sheet"`
	Columns       []dataframe.ColumnSpec `json:"columns"`
	Data          []dataframe.Record     `json:"data"`
	Error         string                 `json:"-"`
}

func (p *UploadPreview) MarshalJSON() ([]byte, error) {
	if p.Error != "" {
		return json.Marshal(errBody{Error: p.Error})
	}
	type alias UploadPreview
	return json.Marshal((*alias)(p))
}

type SheetPreview struct {
	Columns []dataframe.ColumnSpec `json:"columns"`
	Data    []dataframe.Record     `json:"data"`
}

// QueryResult is the outcome of a transform or execute-query call: either a
// schema plus preview rows, or an error message. Both render with HTTP 200.
type QueryResult struct {
	Columns []dataframe.ColumnSpec `json:"columns"`
	Data    []dataframe.Record     `json:"data"`
	Error   string                 `json:"-"`
}

func (r *QueryResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(errBody{Error: r.Error})
	}
	type alias QueryResult
	return json.Marshal((*alias)(r))
}

type errBody struct {
	Error string `json:"error"`
}

// PreviewOf builds the preview payload of a result table.
func PreviewOf(table *dataframe.Table) *QueryResult {
	preview := table.Head(PreviewRows)
	return &QueryResult{
		Columns: preview.Schema(),
		Data:    preview.Records(),
	}
}
