package mediaplan

import (
	"math"
	"strings"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/parser"
)

// placeholderTokens are texts meaning "no value" in finished records.
var placeholderTokens = map[string]bool{
	"-":    true,
	"":     true,
	"N/A":  true,
	"NA":   true,
	"NAN":  true,
	"#N/A": true,
	"NONE": true,
	"NULL": true,
}

func isPlaceholder(s string) bool {
	return placeholderTokens[strings.ToUpper(strings.TrimSpace(s))]
}

// coerceNumeric turns a numeric field into a number or null. Counts are
// rounded and never negative; CTR and VTR given as fractions are scaled to
// percentages unless the source carried a percent sign.
func coerceNumeric(field string, v models.Value) models.Value {
	var (
		n       float64
		percent bool
	)
	switch v.Kind {
	case models.KindNumber:
		n = v.Num
	case models.KindText:
		if isPlaceholder(v.Text) {
			return models.Null()
		}
		var ok bool
		if n, percent, ok = parser.ParseNumber(v.Text); !ok {
			return models.Null()
		}
	default:
		return models.Null()
	}

	if models.IsCountField(field) {
		n = math.Round(n)
		if n < 0 {
			n = 0
		}
	}
	if (field == models.FieldCTR || field == models.FieldVTR) && !percent && n > 0 && n < 1 {
		n *= 100
	}
	return models.Number(n)
}

// coerceRecord applies numeric coercion to every numeric field present.
func coerceRecord(rec *models.Record) {
	for _, f := range models.NumericFields {
		if rec.Has(f) {
			rec.Set(f, coerceNumeric(f, rec.Get(f)))
		}
	}
}

// recomputeDerived overwrites cost metrics from budget and volumes. Source
// values are not trusted; a metric is recomputed whenever the budget is
// known and its denominator is positive.
func recomputeDerived(rec *models.Record) {
	budget, ok := rec.Get(models.FieldBudget).Float()
	if !ok {
		return
	}
	if clicks, ok := rec.Get(models.FieldClicks).Float(); ok && clicks > 0 {
		rec.Set(models.FieldCPC, models.Number(budget/clicks))
	}
	if imps, ok := rec.Get(models.FieldImpressions).Float(); ok && imps > 0 {
		rec.Set(models.FieldCPM, models.Number(budget*1000/imps))
	}
	if views, ok := rec.Get(models.FieldVideoViews).Float(); ok && views > 0 {
		rec.Set(models.FieldCPV, models.Number(budget/views))
	}
}

// finalizeRecord clears placeholder texts, fills the canonical schema and
// orders fields canonically.
func finalizeRecord(rec *models.Record) *models.Record {
	for _, k := range rec.Keys() {
		if v := rec.Get(k); v.Kind == models.KindText && isPlaceholder(v.Text) {
			rec.Set(k, models.Null())
		}
	}
	rec.EnsureSchema()
	return rec.Ordered()
}
