package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/mapping"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func newExtractor(logger *zap.Logger) *Extractor {
	return NewExtractor(mapping.New(config.Default().Columns), logger)
}

func TestExtractMapsAndDisambiguates(t *testing.T) {
	s := rowsSheet(
		[]string{"Market", "Budget", "Spend", "", "Mystery"},
		[]string{"UAE", "1,000", "900", "x", "N/A"},
		[]string{"KSA", "#N/A", "", "", "nan", "overflow"},
	)
	region := models.Region{HeaderRow: 0, StartRow: 1, EndRow: 2, StartCol: 0, EndCol: 4}

	tbl, err := newExtractor(nil).Extract(s, region)
	require.NoError(t, err)

	assert.Equal(t, []string{"Market", "Budget", "Spend", "", "Mystery"}, tbl.RawHeaders)
	require.Len(t, tbl.RawRows, 2)
	assert.Len(t, tbl.RawRows[1], 5, "rows are cut to the header width")

	var names []string
	for _, c := range tbl.Mapped.Columns {
		names = append(names, c.Key.String())
	}
	assert.Equal(t, []string{"MARKET", "BUDGET_LOCAL", "BUDGET_LOCAL_DUP1", "UNKNOWN_COL_3_UNMAPPED", "MYSTERY_UNMAPPED"}, names)

	assert.Equal(t, models.Text("1,000"), tbl.Mapped.Rows[0][1])
	assert.True(t, tbl.Mapped.Rows[0][4].IsNull())
	assert.True(t, tbl.Mapped.Rows[1][1].IsNull())
	assert.True(t, tbl.Mapped.Rows[1][4].IsNull())
	assert.False(t, tbl.Shifted)
}

func TestExtractRejectsInvalidRegion(t *testing.T) {
	s := rowsSheet([]string{"a"})
	_, err := newExtractor(nil).Extract(s, models.Region{HeaderRow: 5, StartRow: 6, EndRow: 6})
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestCorrectColumnShift(t *testing.T) {
	mapper := mapping.New(config.Default().Columns)
	s := rowsSheet(
		[]string{"Country", "Budget", "Impressions"},
		[]string{"UAE", "10", "100"},
	)
	region := models.Region{HeaderRow: 0, StartRow: 1, EndRow: 1, StartCol: 1, EndCol: 2}

	shifted, ok := CorrectColumnShift(s, region, mapper)
	require.True(t, ok)
	assert.Equal(t, 0, shifted.StartCol)
	assert.Equal(t, 1, shifted.EndCol)

	region.StartCol = 0
	_, ok = CorrectColumnShift(s, region, mapper)
	assert.False(t, ok, "left edge cannot shift")

	withMarket := rowsSheet(
		[]string{"Geo", "Market", "Budget"},
		[]string{"x", "UAE", "10"},
	)
	_, ok = CorrectColumnShift(withMarket, models.Region{HeaderRow: 0, StartRow: 1, EndRow: 1, StartCol: 1, EndCol: 2}, mapper)
	assert.False(t, ok, "a mapped MARKET header needs no correction")
}

func TestExtractLogsShift(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := rowsSheet(
		[]string{"Market", "Budget", "Impressions"},
		[]string{"UAE", "10", "100"},
	)
	region := models.Region{HeaderRow: 0, StartRow: 1, EndRow: 1, StartCol: 1, EndCol: 2}

	tbl, err := newExtractor(zap.New(core)).Extract(s, region)
	require.NoError(t, err)
	assert.True(t, tbl.Shifted)
	assert.Equal(t, 0, tbl.Region.StartCol)
	assert.Equal(t, "MARKET", tbl.Mapped.Columns[0].Key.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "B1:C2", logs.All()[0].ContextMap()["from"])
	assert.Equal(t, "A1:B2", logs.All()[0].ContextMap()["to"])
}
