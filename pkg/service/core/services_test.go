package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sheetflow/sheetflow-backend/pkg/database"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage"
)

const testMaxScriptStatements = 100

func newServices(t *testing.T) (*core.Services, *storage.Stores) {
	t.Helper()

	repo, err := database.New(context.Background(), ":memory:", zerolog.New(os.Stdout))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	stores, err := storage.NewStores(repo, t.TempDir())
	require.NoError(t, err)

	return core.NewServices(stores, testMaxScriptStatements, zerolog.New(os.Stdout)), stores
}
