package mediaplan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		name  string
		field string
		in    models.Value
		want  models.Value
	}{
		{"currency text", models.FieldBudget, models.Text("$1,234.50"), models.Number(1234.5)},
		{"dash placeholder", models.FieldBudget, models.Text("-"), models.Null()},
		{"n/a placeholder", models.FieldImpressions, models.Text("N/A"), models.Null()},
		{"garbage", models.FieldBudget, models.Text("tbc"), models.Null()},
		{"null stays null", models.FieldBudget, models.Null(), models.Null()},
		{"negative count clamps", models.FieldImpressions, models.Number(-3), models.Number(0)},
		{"count rounds", models.FieldClicks, models.Text("10.6"), models.Number(11)},
		{"fractional ctr scales", models.FieldCTR, models.Text("0.025"), models.Number(2.5)},
		{"percent ctr kept", models.FieldCTR, models.Text("2.5%"), models.Number(2.5)},
		{"whole ctr kept", models.FieldVTR, models.Number(35), models.Number(35)},
		{"budget not scaled", models.FieldBudget, models.Number(0.5), models.Number(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceNumeric(tt.field, tt.in)
			assert.Equal(t, tt.want.Kind, got.Kind)
			if f, ok := tt.want.Float(); ok {
				g, _ := got.Float()
				assert.InDelta(t, f, g, 1e-9)
			}
		})
	}
}

func TestRecomputeDerived(t *testing.T) {
	rec := models.NewRecord()
	rec.Set(models.FieldBudget, models.Number(500))
	rec.Set(models.FieldImpressions, models.Number(250000))
	rec.Set(models.FieldClicks, models.Number(100))
	rec.Set(models.FieldVideoViews, models.Number(0))
	rec.Set(models.FieldCPM, models.Number(999))
	rec.Set(models.FieldCPV, models.Number(7))

	recomputeDerived(rec)

	cpm, _ := rec.Get(models.FieldCPM).Float()
	assert.InDelta(t, 2.0, cpm, 1e-9, "source CPM is overwritten")
	cpc, _ := rec.Get(models.FieldCPC).Float()
	assert.InDelta(t, 5.0, cpc, 1e-9)
	cpv, _ := rec.Get(models.FieldCPV).Float()
	assert.InDelta(t, 7.0, cpv, 1e-9, "zero views leave CPV as given")
}

func TestRecomputeDerivedWithoutBudget(t *testing.T) {
	rec := models.NewRecord()
	rec.Set(models.FieldImpressions, models.Number(1000))

	recomputeDerived(rec)
	assert.False(t, rec.Has(models.FieldCPM))
}

func TestFinalizeRecord(t *testing.T) {
	rec := models.NewRecord()
	rec.Set("NOTES_UNMAPPED", models.Text("keep"))
	rec.Set(models.FieldBrand, models.Text("N/A"))
	rec.Set(models.FieldMarket, models.Text("UAE"))

	out := finalizeRecord(rec)

	keys := out.Keys()
	assert.Equal(t, models.CanonicalColumns, keys[:len(models.CanonicalColumns)])
	assert.Equal(t, "NOTES_UNMAPPED", keys[len(keys)-1])
	assert.True(t, out.Get(models.FieldBrand).IsNull())
	assert.Equal(t, models.Text("UAE"), out.Get(models.FieldMarket))
	assert.True(t, out.Get(models.FieldCampaign).IsNull())
}
