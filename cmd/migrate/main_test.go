package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/core"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, snap *dataset.Snapshot, ds *dataset.Dataset) error {
	return m.Called(ctx, snap, ds).Error(0)
}

func (m *mockRepo) List(ctx context.Context, limit int) ([]*dataset.Snapshot, error) {
	args := m.Called(ctx, limit)
	snaps, _ := args.Get(0).([]*dataset.Snapshot)
	return snaps, args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, id core.SnapshotID) (*dataset.Snapshot, error) {
	args := m.Called(ctx, id)
	snap, _ := args.Get(0).(*dataset.Snapshot)
	return snap, args.Error(1)
}

func (m *mockRepo) Latest(ctx context.Context) (*dataset.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*dataset.Snapshot)
	return snap, args.Error(1)
}

func (m *mockRepo) Records(ctx context.Context, id core.SnapshotID) ([][]string, error) {
	args := m.Called(ctx, id)
	records, _ := args.Get(0).([][]string)
	return records, args.Error(1)
}

func TestFindDataFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2024"), 0o755))
	for _, name := range []string{"b.csv", "a.XLSX", "notes.txt", "2024/c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0o644))
	}
	single := filepath.Join(t.TempDir(), "single.dat")
	require.NoError(t, os.WriteFile(single, []byte("x\n1\n"), 0o644))

	files, err := findDataFiles([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2024/c.csv"),
		filepath.Join(dir, "a.XLSX"),
		filepath.Join(dir, "b.csv"),
		single,
	}, files)

	_, err = findDataFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestImportFileSavesSnapshot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "facilities.csv")
	require.NoError(t, os.WriteFile(file, []byte("district,cases\nKisumu,10\nSiaya,\n"), 0o644))

	repo := &mockRepo{}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *dataset.Snapshot) bool {
		return s.Name == "facilities" && s.RowCount == 2 && s.FilledCells == 1
	}), mock.Anything).Return(nil)

	require.NoError(t, importFile(context.Background(), repo, file))
	repo.AssertExpectations(t)
}

func TestImportFileReportsLoadErrors(t *testing.T) {
	repo := &mockRepo{}
	err := importFile(context.Background(), repo, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
