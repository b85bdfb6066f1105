package fs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage/fs"
)

func TestUploadStorageRoundTrip(t *testing.T) {
	ctx := context.Background()

	storage, err := fs.NewUploadStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Save(ctx, "report.xlsx", []byte("first")))

	data, err := storage.Read(ctx, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	// Same filename silently overwrites.
	require.NoError(t, storage.Save(ctx, "report.xlsx", []byte("second")))
	data, err = storage.Read(ctx, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestUploadStorageMissingFile(t *testing.T) {
	storage, err := fs.NewUploadStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Read(context.Background(), "absent.xlsx")
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.NotExist, err))
	assert.Equal(t, "File not found", err.Error())
}

func TestUploadStorageFlattensPaths(t *testing.T) {
	ctx := context.Background()

	storage, err := fs.NewUploadStorage(t.TempDir())
	require.NoError(t, err)

	// A path-qualified name is stored under its base name.
	require.NoError(t, storage.Save(ctx, "uploads/nested/report.xlsx", []byte("data")))

	data, err := storage.Read(ctx, "report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)

	assert.Error(t, storage.Save(ctx, "..", []byte("nope")))
}
