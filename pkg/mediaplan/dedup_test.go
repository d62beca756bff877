package mediaplan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func record(st models.SourceType, sheet, market, platform string, budget float64) *models.Record {
	rec := models.NewRecord()
	rec.Set(models.FieldSourceFile, models.Text("plan.xlsx"))
	rec.Set(models.FieldSourceSheet, models.Text(sheet))
	rec.Set(models.FieldSourceType, models.Text(string(st)))
	rec.Set(models.FieldMarket, models.Text(market))
	rec.Set(models.FieldPlatform, models.Text(platform))
	rec.Set(models.FieldBudget, models.Number(budget))
	return rec
}

func TestDedupPlannedExactWithinSheet(t *testing.T) {
	recs := []*models.Record{
		record(models.SourcePlanned, "DV360", "UAE", "DV360", 10),
		record(models.SourcePlanned, "DV360", "UAE", "DV360", 10),
		record(models.SourcePlanned, "DV360", "UAE", "DV360", 20),
	}
	assert.Len(t, dedupRecords(recs, scopeSheet), 2)
	assert.Len(t, dedupRecords(recs, scopeWorkbook), 3, "planned rows only collapse within a sheet")
}

func TestDedupOtherByMarketAndPlatform(t *testing.T) {
	recs := []*models.Record{
		record(models.SourceOther, "TikTok", "UAE", "TIKTOK", 10),
		record(models.SourceOther, "TikTok", "UAE", "TIKTOK", 20),
		record(models.SourceOther, "TikTok", "KSA", "TIKTOK", 20),
		record(models.SourceOther, "Snap", "UAE", "TIKTOK", 20),
	}
	for _, scope := range []dedupScope{scopeSheet, scopeWorkbook} {
		out := dedupRecords(recs, scope)
		assert.Len(t, out, 3)
		assert.Equal(t, models.Number(10), out[0].Get(models.FieldBudget), "first row wins")
	}
}

func TestDedupKeepsDeliveredAndRF(t *testing.T) {
	recs := []*models.Record{
		record(models.SourceDeliveredMedia, "META", "UAE", "META", 10),
		record(models.SourceDeliveredMedia, "META", "UAE", "META", 10),
		record(models.SourceDeliveredRF, "META", "UAE", "Campaign Reach", 0),
		record(models.SourceDeliveredRF, "META", "UAE", "Campaign Reach", 0),
		record(models.SourceOther, "META", "UAE", "Awareness Freq.", 0),
		record(models.SourceOther, "META", "UAE", "Awareness Freq.", 0),
	}
	out := dedupRecords(recs, scopeWorkbook)
	assert.Len(t, out, len(recs))
	assert.Equal(t, 4, countRF(out))
	assert.Equal(t, 2, countSource(out, models.SourceDeliveredMedia))
}

func TestCheckPreserved(t *testing.T) {
	p := NewProcessor(nil, DefaultOptions())
	assert.Empty(t, p.checkPreserved("f.xlsx", "META", 4, 4, 3, 3))

	errs := p.checkPreserved("f.xlsx", "META", 4, 3, 3, 2)
	assert.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, KindValidation, e.Kind)
		var ve *ValidationError
		assert.ErrorAs(t, e, &ve)
	}
}
