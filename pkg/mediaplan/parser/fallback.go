package parser

import (
	"strings"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

// identifierKeywords are header words typical of media plan tables.
var identifierKeywords = [][]string{
	{"MARKET"}, {"MARKETS"}, {"COUNTRY"}, {"BRAND"}, {"CAMPAIGN"}, {"PLATFORM"},
	{"CHANNEL"}, {"OBJECTIVE"}, {"OBJECTIVES"}, {"FORMAT"}, {"PLACEMENT"},
	{"DEVICE"}, {"AUDIENCE"}, {"START", "DATE"}, {"END", "DATE"}, {"WEEKS"},
	{"CURRENCY"}, {"BUDGET"}, {"SPEND"}, {"COST"}, {"IMPRESSIONS"}, {"IMPS"},
	{"CLICKS"}, {"VIEWS"}, {"REACH"}, {"FREQUENCY"}, {"FREQ"}, {"UNIQUES"},
	{"CPM"}, {"CPC"}, {"CPV"}, {"CTR"}, {"VTR"}, {"KPI"}, {"KPIS"}, {"METRICS"},
}

// metricKeywords identify measure columns in a header row.
var metricKeywords = [][]string{
	{"BUDGET"}, {"SPEND"}, {"COST"}, {"IMPRESSIONS"}, {"IMPS"}, {"CLICKS"},
	{"VIEWS"}, {"REACH"}, {"UNIQUES"}, {"FREQUENCY"}, {"FREQ"}, {"CPM"},
	{"CPC"}, {"CPV"}, {"CTR"}, {"VTR"}, {"METRIC"}, {"METRICS"},
}

// summaryKeywords close a table when found in a row's first cell.
var summaryKeywords = [][]string{
	{"GRAND", "TOTAL"}, {"TOTAL"}, {"TOTALS"}, {"SUBTOTAL"}, {"SUB", "TOTAL"},
	{"SUM"}, {"AVERAGE"}, {"AVG"},
}

const (
	// blankRunLimit consecutive blank rows end a table.
	blankRunLimit = 3
	// groupGapLimit empty header cells in a row split column groups.
	groupGapLimit = 3
	// minGroupSize is the smallest surviving column group.
	minGroupSize = 3
)

func matchesAny(cell string, phrases [][]string) bool {
	words := textnorm.Words(cell)
	for _, p := range phrases {
		if textnorm.ContainsPhrase(words, p) {
			return true
		}
	}
	return false
}

// keywordHits counts cells of row [first, last] holding an identifier keyword.
func keywordHits(s *Sheet, row, first, last int) int {
	hits := 0
	for _, cell := range s.Row(row, first, last) {
		if cell != "" && matchesAny(cell, identifierKeywords) {
			hits++
		}
	}
	return hits
}

// metricColumns counts header cells naming a measure.
func metricColumns(s *Sheet, row, first, last int) int {
	n := 0
	for _, cell := range s.Row(row, first, last) {
		if cell != "" && matchesAny(cell, metricKeywords) {
			n++
		}
	}
	return n
}

// isPotentialHeader scores a row for header likelihood. Rows that are
// mostly numeric are data, whatever else they contain.
func isPotentialHeader(s *Sheet, row, first, last int) bool {
	var nonEmpty, numeric int
	for _, cell := range s.Row(row, first, last) {
		if cell == "" {
			continue
		}
		nonEmpty++
		if IsNumeric(cell) {
			numeric++
		}
	}
	// a lone cell is a title or note, whatever its text ratio
	if nonEmpty < 2 {
		return false
	}
	if float64(numeric)/float64(nonEmpty) > 0.7 {
		return false
	}
	text := nonEmpty - numeric
	textRatio := float64(text) / float64(nonEmpty)
	hits := keywordHits(s, row, first, last)
	switch {
	case hits >= 2:
		return true
	case textRatio >= 0.6 && nonEmpty >= 3:
		return true
	case hits >= 1 && textRatio >= 0.7:
		return true
	case textRatio >= 0.8:
		return true
	default:
		return text > 2*numeric
	}
}

type colSpan struct{ first, last int }

// columnGroups splits the non-empty cells of a header row into groups
// separated by more than groupGapLimit empty cells, dropping small groups.
func columnGroups(s *Sheet, row int) []colSpan {
	var groups []colSpan
	cur, size, gap := colSpan{first: -1}, 0, 0
	flush := func() {
		if cur.first >= 0 && size >= minGroupSize {
			groups = append(groups, cur)
		}
		cur, size, gap = colSpan{first: -1}, 0, 0
	}
	for c := 0; c < s.NumCols(); c++ {
		if s.Cell(row, c) == "" {
			if cur.first >= 0 {
				gap++
				if gap > groupGapLimit {
					flush()
				}
			}
			continue
		}
		if cur.first < 0 {
			cur.first = c
		}
		cur.last = c
		size++
		gap = 0
	}
	flush()
	return groups
}

// nonEmptySpan returns the first and last non-empty column of a row.
func nonEmptySpan(s *Sheet, row int) (colSpan, bool) {
	span := colSpan{first: -1, last: -1}
	for c := 0; c < s.NumCols(); c++ {
		if s.Cell(row, c) == "" {
			continue
		}
		if span.first < 0 {
			span.first = c
		}
		span.last = c
	}
	return span, span.first >= 0
}

func firstNonEmpty(s *Sheet, row, first, last int) string {
	for c := first; c <= last; c++ {
		if v := s.Cell(row, c); v != "" {
			return v
		}
	}
	return ""
}

// findDataEnd scans down from header+1 and returns the last row that is
// data. A table ends at the next header, a summary row, an END marker in
// the first cell, or blankRunLimit consecutive blank rows.
func findDataEnd(s *Sheet, cfg *config.Config, header int, span colSpan) int {
	end := header
	blanks := 0
	for r := header + 1; r < s.NumRows(); r++ {
		if s.RowBlank(r, span.first, span.last) {
			blanks++
			if blanks >= blankRunLimit {
				break
			}
			continue
		}
		blanks = 0
		first := firstNonEmpty(s, r, span.first, span.last)
		if matchesAny(first, summaryKeywords) || cfg.ContainsEndMarker(first) {
			break
		}
		if keywordHits(s, r, span.first, span.last) >= 2 && isPotentialHeader(s, r, span.first, span.last) {
			break
		}
		end = r
	}
	return end
}

// DetectIdentifierRegions finds tables by header likelihood when a sheet
// carries no usable sentinels. Each header row yields either one region
// per column group or a single region over its non-empty cells, and is
// consumed at most once.
func DetectIdentifierRegions(s *Sheet, cfg *config.Config, format models.FileFormat) []models.Region {
	var regions []models.Region
	for r := 0; r < s.NumRows(); r++ {
		full, ok := nonEmptySpan(s, r)
		if !ok || !isPotentialHeader(s, r, full.first, full.last) {
			continue
		}

		method := models.MethodIdentifierGroup
		spans := columnGroups(s, r)
		if len(spans) == 0 {
			method = models.MethodIdentifier
			spans = []colSpan{full}
		}

		lastEnd := -1
		for _, span := range spans {
			end := findDataEnd(s, cfg, r, span)
			if end <= r {
				continue
			}
			regions = append(regions, models.Region{
				HeaderRow: r,
				StartRow:  r + 1,
				EndRow:    end,
				StartCol:  span.first,
				EndCol:    span.last,
				Method:    method,
				Delivered: format == models.FormatDelivered,
			})
			if end > lastEnd {
				lastEnd = end
			}
		}
		if lastEnd > r {
			r = lastEnd
		}
	}
	return regions
}

// DetectMetricsRegions finds reach & frequency tables in delivered reports:
// a METRICS cell with market names to its right heads a wide table whose
// rows are metric labels.
func DetectMetricsRegions(s *Sheet, cfg *config.Config) []models.Region {
	var regions []models.Region
	for r := 0; r < s.NumRows(); r++ {
		for c := 0; c < s.NumCols(); c++ {
			f := textnorm.Fold(s.Cell(r, c))
			if f != "METRICS" && f != "METRIC" {
				continue
			}
			last, markets := c, 0
			for cc := c + 1; cc < s.NumCols() && s.Cell(r, cc) != ""; cc++ {
				last = cc
				if cfg.IsMarket(s.Cell(r, cc)) {
					markets++
				}
			}
			if markets == 0 {
				continue
			}
			end := r
			blanks := 0
			for rr := r + 1; rr < s.NumRows(); rr++ {
				if s.RowBlank(rr, c, last) {
					blanks++
					if blanks >= blankRunLimit {
						break
					}
					continue
				}
				blanks = 0
				if cfg.IsEndMarker(s.Cell(rr, c)) {
					break
				}
				end = rr
			}
			if end == r {
				continue
			}
			regions = append(regions, models.Region{
				HeaderRow:   r,
				StartRow:    r + 1,
				EndRow:      end,
				StartCol:    c,
				EndCol:      last,
				Method:      models.MethodMetrics,
				Delivered:   true,
				RFCandidate: true,
			})
		}
	}
	return regions
}

// isRFCandidate flags regions shaped like reach & frequency tables.
func isRFCandidate(s *Sheet, cfg *config.Config, r models.Region) bool {
	if strings.Contains(textnorm.Fold(s.Cell(r.HeaderRow, r.StartCol)), "METRIC") {
		return true
	}
	for row := r.StartRow; row <= r.EndRow; row++ {
		if _, ok := cfg.RFMetricFor(s.Cell(row, r.StartCol)); ok {
			return true
		}
	}
	return false
}
