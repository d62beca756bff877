package mediaplan

import (
	"strings"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

// dedupScope selects which collapse rules apply.
type dedupScope int

const (
	scopeSheet dedupScope = iota
	scopeWorkbook
)

// isRFRecord reports a reach & frequency row by its PLATFORM label.
func isRFRecord(rec *models.Record) bool {
	p := strings.ToUpper(rec.Get(models.FieldPlatform).String())
	return strings.Contains(p, "REACH") || strings.Contains(p, "FREQ")
}

func sourceType(rec *models.Record) models.SourceType {
	return models.SourceType(rec.Get(models.FieldSourceType).String())
}

// dedupRecords collapses duplicate rows while preserving granularity.
// R&F rows and delivered media rows are never collapsed. Planned rows
// collapse only as exact duplicates within one sheet, since one market
// legitimately repeats once per platform sheet. Any other row collapses on
// (Source_File, Source_Sheet, MARKET, PLATFORM).
func dedupRecords(recs []*models.Record, scope dedupScope) []*models.Record {
	exact := make(map[string]bool)
	keyed := make(map[string]bool)
	out := make([]*models.Record, 0, len(recs))
	for _, rec := range recs {
		if isRFRecord(rec) {
			out = append(out, rec)
			continue
		}
		switch sourceType(rec) {
		case models.SourceDeliveredMedia, models.SourceDeliveredRF:
		case models.SourcePlanned:
			if scope == scopeSheet {
				fp := rec.Fingerprint()
				if exact[fp] {
					continue
				}
				exact[fp] = true
			}
		default:
			key := strings.Join([]string{
				rec.Get(models.FieldSourceFile).String(),
				rec.Get(models.FieldSourceSheet).String(),
				rec.Get(models.FieldMarket).String(),
				rec.Get(models.FieldPlatform).String(),
			}, "\x1f")
			if keyed[key] {
				continue
			}
			keyed[key] = true
		}
		out = append(out, rec)
	}
	return out
}

// countRF counts reach & frequency rows.
func countRF(recs []*models.Record) int {
	n := 0
	for _, rec := range recs {
		if isRFRecord(rec) {
			n++
		}
	}
	return n
}

// countSource counts rows of one source type.
func countSource(recs []*models.Record, st models.SourceType) int {
	n := 0
	for _, rec := range recs {
		if sourceType(rec) == st {
			n++
		}
	}
	return n
}
