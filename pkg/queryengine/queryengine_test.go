package queryengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetflow/sheetflow-backend/pkg/dataframe"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/queryengine"
)

func table(t *testing.T, columns []string, rows ...[]interface{}) *dataframe.Table {
	t.Helper()
	tbl := dataframe.New(columns...)
	for _, row := range rows {
		tbl.AppendRow(row...)
	}
	return tbl
}

func TestRunSelectWhere(t *testing.T) {
	tables := map[string]*dataframe.Table{
		"t": table(t, []string{"x"}, []interface{}{1.0}, []interface{}{2.0}),
	}

	result, err := queryengine.Run(context.Background(), tables, "SELECT * FROM t WHERE x = 1")
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, result.Columns())
	assert.Equal(t, []dataframe.Record{{"x": 1.0}}, result.Records())
}

func TestRunJoin(t *testing.T) {
	tables := map[string]*dataframe.Table{
		"orders": table(t, []string{"id", "customer"},
			[]interface{}{1.0, "ada"}, []interface{}{2.0, "grace"}),
		"totals": table(t, []string{"id", "amount"},
			[]interface{}{1.0, 10.5}, []interface{}{2.0, 20.0}),
	}

	result, err := queryengine.Run(context.Background(), tables,
		"SELECT o.customer, t.amount FROM orders o JOIN totals t ON o.id = t.id ORDER BY t.amount")
	require.NoError(t, err)

	assert.Equal(t, []dataframe.Record{
		{"customer": "ada", "amount": 10.5},
		{"customer": "grace", "amount": 20.0},
	}, result.Records())
}

func TestRunAggregates(t *testing.T) {
	tables := map[string]*dataframe.Table{
		"t": table(t, []string{"x"}, []interface{}{1.0}, []interface{}{2.0}, []interface{}{3.0}),
	}

	result, err := queryengine.Run(context.Background(), tables, "SELECT COUNT(*) AS n, SUM(x) AS total FROM t")
	require.NoError(t, err)

	assert.Equal(t, []dataframe.Record{{"n": 3.0, "total": 6.0}}, result.Records())
}

func TestRunQuotedIdentifiers(t *testing.T) {
	tables := map[string]*dataframe.Table{
		"my table": table(t, []string{"first name"}, []interface{}{"ada"}),
	}

	result, err := queryengine.Run(context.Background(), tables, `SELECT "first name" FROM "my table"`)
	require.NoError(t, err)

	assert.Equal(t, []dataframe.Record{{"first name": "ada"}}, result.Records())
}

func TestRunBadQuery(t *testing.T) {
	tables := map[string]*dataframe.Table{
		"t": table(t, []string{"x"}, []interface{}{1.0}),
	}

	_, err := queryengine.Run(context.Background(), tables, "SELEC nope")
	assert.Error(t, err)

	_, err = queryengine.Run(context.Background(), tables, "SELECT * FROM missing")
	assert.Error(t, err)
}

func TestRunNoTables(t *testing.T) {
	_, err := queryengine.Run(context.Background(), nil, "SELECT 1")
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.InvalidRequest, err))
}

func TestRunEmptyTable(t *testing.T) {
	tables := map[string]*dataframe.Table{
		"t": table(t, []string{"x"}),
	}

	result, err := queryengine.Run(context.Background(), tables, "SELECT * FROM t")
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumRows())
}
