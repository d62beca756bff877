package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func testStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func result(runID string, markets ...string) *mediaplan.Result {
	res := &mediaplan.Result{RunID: runID, File: "plan.xlsx", Format: models.FormatPlanned, Success: true}
	for _, m := range markets {
		rec := models.NewRecord()
		if m != "" {
			rec.Set(models.FieldMarket, models.Text(m))
		}
		rec.Set(models.FieldBudget, models.Number(10))
		rec.EnsureSchema()
		res.Records = append(res.Records, rec.Ordered())
	}
	return res
}

func TestSaveRoundTripsRecordCount(t *testing.T) {
	s := testStore(t, ":memory:")
	ctx := context.Background()

	res := result("run-a", "UAE", "", "KSA")
	res.Errors = []*mediaplan.ProcessingError{
		mediaplan.NewProcessingError("plan.xlsx", "YouTube", "sheet", mediaplan.KindDetection, errors.New("no regions")),
	}
	require.NoError(t, s.Save(ctx, res))
	require.NoError(t, s.Save(ctx, result("run-b", "QAT")))

	n, err := s.RecordCount(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	markets, err := s.Markets(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"UAE", "", "KSA"}, markets)

	kinds, err := s.ErrorKinds(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"detection"}, kinds)

	n, err = s.RecordCount(ctx, "run-b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveDuplicateRunRollsBack(t *testing.T) {
	s := testStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, result("run-a", "UAE")))
	assert.Error(t, s.Save(ctx, result("run-a", "KSA", "QAT")))

	n, err := s.RecordCount(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, result("run-a", "UAE", "KSA")))
	require.NoError(t, s.Close())

	reopened := testStore(t, path)
	n, err := reopened.RecordCount(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
