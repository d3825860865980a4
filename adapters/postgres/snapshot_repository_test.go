package postgres

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitambatha/malaria-data-visualization-with-postgres/domain/dataset"
	"github.com/waitambatha/malaria-data-visualization-with-postgres/internal/errors"
)

func TestSnapshotRecordDecodesColumns(t *testing.T) {
	record := snapshotRecord{
		Snapshot:    dataset.Snapshot{Name: "facilities", RowCount: 3},
		ColumnsJSON: []byte(`[{"name":"cases","kind":"numeric","dtype":"float64","filled_at_load":1}]`),
	}

	snap, err := record.toSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "facilities", snap.Name)
	require.Len(t, snap.Columns, 1)
	assert.Equal(t, "cases", snap.Columns[0].Name)
	assert.Equal(t, 1, snap.Columns[0].FilledAtLoad)

	record.ColumnsJSON = []byte(`{`)
	_, err = record.toSnapshot()
	assert.Error(t, err)
}

func TestDatabaseErrorKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := databaseError("failed to list snapshots", cause)

	assert.True(t, errors.HasCode(err, errors.CodeDatabaseError))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to list snapshots")
}
