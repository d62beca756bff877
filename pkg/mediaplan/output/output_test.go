package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func sampleRecord() *models.Record {
	rec := models.NewRecord()
	rec.Set(models.FieldSourceFile, models.Text("plan.xlsx"))
	rec.Set(models.FieldSourceSheet, models.Text("DV360"))
	rec.Set(models.FieldMarket, models.Text("UAE"))
	rec.Set(models.FieldPlatform, models.Text("DV360"))
	rec.Set(models.FieldBudget, models.Number(1234.5))
	rec.Set(models.FieldImpressions, models.Number(500000))
	rec.Set(models.FieldSourceType, models.Text("PLANNED"))
	rec.Set("NOTES_UNMAPPED", models.Text("dropped"))
	rec.EnsureSchema()
	return rec.Ordered()
}

func sampleResult() *mediaplan.Result {
	return &mediaplan.Result{
		RunID:   "run-1",
		File:    "plan.xlsx",
		Format:  models.FormatPlanned,
		Success: true,
		Records: []*models.Record{sampleRecord()},
		Errors: []*mediaplan.ProcessingError{
			mediaplan.NewProcessingError("plan.xlsx", "YouTube", "sheet", mediaplan.KindDetection, errors.New("no regions")),
		},
	}
}

func TestProject(t *testing.T) {
	table := Project([]*models.Record{sampleRecord()})
	require.Len(t, table, 2)
	assert.Equal(t, models.CanonicalColumns, table[0])

	row := table[1]
	col := func(name string) string {
		for i, h := range table[0] {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("column %s missing", name)
		return ""
	}
	assert.Equal(t, "UAE", col(models.FieldMarket))
	assert.Equal(t, "1234.5", col(models.FieldBudget))
	assert.Equal(t, Placeholder, col(models.FieldBrand))
	assert.NotContains(t, table[0], "NOTES_UNMAPPED")
}

func TestFromTableRoundTrip(t *testing.T) {
	orig := sampleRecord()
	recs, err := FromTable(Project([]*models.Record{orig}))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, models.CanonicalColumns, got.Keys())
	for _, name := range models.CanonicalColumns {
		assert.Equal(t, orig.Get(name), got.Get(name), name)
	}
}

func TestFromTableErrors(t *testing.T) {
	_, err := FromTable(nil)
	assert.Error(t, err)

	_, err = FromTable([][]string{{"MARKET", ""}})
	assert.Error(t, err)

	_, err = FromTable([][]string{{models.FieldBudget}, {"lots"}})
	assert.Error(t, err)
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON([]*mediaplan.Result{sampleResult()}, false)
	require.NoError(t, err)

	var doc struct {
		Results []struct {
			RunID   string           `json:"run_id"`
			Success bool             `json:"success"`
			Records []map[string]any `json:"records"`
			Errors  []string         `json:"errors"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Results, 1)

	res := doc.Results[0]
	assert.Equal(t, "run-1", res.RunID)
	assert.True(t, res.Success)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "UAE", res.Records[0][models.FieldMarket])
	assert.Nil(t, res.Records[0][models.FieldBrand])
	assert.InDelta(t, 1234.5, res.Records[0][models.FieldBudget], 1e-9)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "no regions")

	pretty, err := ToJSON([]*mediaplan.Result{sampleResult()}, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")
}

func TestRecordJSONKeepsCanonicalOrder(t *testing.T) {
	data, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(`{"Source_File":"plan.xlsx","Source_Sheet":"DV360","MARKET":"UAE"`)))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResult()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{CanonicalSheet, ErrorsSheet}, f.GetSheetList())

	rows, err := f.GetRows(CanonicalSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.CanonicalColumns, rows[0])
	assert.Equal(t, Placeholder, rows[1][3], "BRAND renders as a placeholder")

	errRows, err := f.GetRows(ErrorsSheet)
	require.NoError(t, err)
	require.Len(t, errRows, 2)
	assert.Equal(t, []string{"plan.xlsx", "YouTube", "sheet", "-1", "detection", "no regions"}, errRows[1])

	recs, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.Number(500000), recs[0].Get(models.FieldImpressions))
	assert.Equal(t, models.Text("PLANNED"), recs[0].Get(models.FieldSourceType))
}

func TestSaveXLSX(t *testing.T) {
	path := t.TempDir() + "/out.xlsx"
	require.NoError(t, SaveXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(CanonicalSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
