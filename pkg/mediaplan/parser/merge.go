package parser

import (
	"sort"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

const (
	// mergeOverlap is the per-axis overlap ratio above which regions merge.
	mergeOverlap = 0.5
	// headerShiftWindow bounds how far re-validation may move a header.
	headerShiftWindow = 3
)

// overlapRatio is the intersection of [a0, a1] and [b0, b1] divided by the
// shorter range.
func overlapRatio(a0, a1, b0, b1 int) float64 {
	lo, hi := max(a0, b0), min(a1, b1)
	if hi < lo {
		return 0
	}
	shorter := min(a1-a0+1, b1-b0+1)
	if shorter <= 0 {
		return 0
	}
	return float64(hi-lo+1) / float64(shorter)
}

// Overlaps reports whether two regions overlap by more than half in both
// axes. Row extents include the header row.
func Overlaps(a, b models.Region) bool {
	rows := overlapRatio(a.HeaderRow, max(a.EndRow, a.HeaderRow), b.HeaderRow, max(b.EndRow, b.HeaderRow))
	cols := overlapRatio(a.StartCol, a.EndCol, b.StartCol, b.EndCol)
	return rows > mergeOverlap && cols > mergeOverlap
}

// MergeRegions collapses regions found by competing strategies. Reach &
// frequency candidates never merge with ordinary tables. Survivors are
// re-validated, merged once more and numbered in sheet order.
func MergeRegions(s *Sheet, cfg *config.Config, regions []models.Region) []models.Region {
	merged := mergeAll(s, regions)

	valid := merged[:0]
	for _, r := range merged {
		if rv, ok := revalidate(s, cfg, r); ok {
			valid = append(valid, rv)
		}
	}
	out := mergeAll(s, valid)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HeaderRow != out[j].HeaderRow {
			return out[i].HeaderRow < out[j].HeaderRow
		}
		return out[i].StartCol < out[j].StartCol
	})
	for i := range out {
		out[i].Index = i
		out[i].Ref = RangeRef(out[i])
	}
	return out
}

func mergeAll(s *Sheet, regions []models.Region) []models.Region {
	out := append([]models.Region(nil), regions...)
	for changed := true; changed; {
		changed = false
	scan:
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].RFCandidate != out[j].RFCandidate || !Overlaps(out[i], out[j]) {
					continue
				}
				out[i] = mergePair(s, out[i], out[j])
				out = append(out[:j], out[j+1:]...)
				changed = true
				break scan
			}
		}
	}
	return out
}

func mergePair(s *Sheet, a, b models.Region) models.Region {
	first, last := min(a.StartCol, b.StartCol), max(a.EndCol, b.EndCol)

	header := a
	switch {
	case b.RFCandidate && !a.RFCandidate:
		header = b
	case a.RFCandidate == b.RFCandidate:
		ha, hb := keywordHits(s, a.HeaderRow, first, last), keywordHits(s, b.HeaderRow, first, last)
		if hb > ha || (hb == ha && b.HeaderRow < a.HeaderRow) {
			header = b
		}
	}

	out := models.Region{
		HeaderRow:   header.HeaderRow,
		StartRow:    header.HeaderRow + 1,
		EndRow:      max(a.EndRow, b.EndRow),
		StartCol:    first,
		EndCol:      last,
		Method:      a.Method,
		Delivered:   a.Delivered || b.Delivered,
		RFCandidate: a.RFCandidate || b.RFCandidate,
	}
	if b.Method.Rank() > a.Method.Rank() {
		out.Method = b.Method
	}
	return out
}

// revalidate checks a merged region. Heuristic regions need enough metric
// columns and may move their header to a better-scoring nearby row; every
// region has its data end re-scanned for trailing blank runs.
func revalidate(s *Sheet, cfg *config.Config, r models.Region) (models.Region, bool) {
	if r.Method.Heuristic() {
		best, bestHits := r.HeaderRow, keywordHits(s, r.HeaderRow, r.StartCol, r.EndCol)
		for d := -headerShiftWindow; d <= headerShiftWindow; d++ {
			row := r.HeaderRow + d
			if d == 0 || row < 0 || row >= r.EndRow {
				continue
			}
			if hits := keywordHits(s, row, r.StartCol, r.EndCol); hits > bestHits {
				best, bestHits = row, hits
			}
		}
		if best != r.HeaderRow {
			r.HeaderRow = best
			r.StartRow = best + 1
		}

		need := 2
		if r.Delivered {
			need = 1
		}
		if metricColumns(s, r.HeaderRow, r.StartCol, r.EndCol) < need {
			return r, false
		}
	}

	if r.Rows() > 0 {
		r.EndRow = trimTrailingBlanks(s, r, cfg)
	}
	if r.EndRow < r.StartRow && !r.Delivered {
		return r, false
	}
	return r, true
}

// trimTrailingBlanks cuts a region at the first run of blankRunLimit blank
// rows and drops trailing blank rows.
func trimTrailingBlanks(s *Sheet, r models.Region, cfg *config.Config) int {
	end := r.StartRow - 1
	blanks := 0
	for row := r.StartRow; row <= r.EndRow; row++ {
		if s.RowBlank(row, r.StartCol, r.EndCol) {
			blanks++
			if blanks >= blankRunLimit {
				break
			}
			continue
		}
		blanks = 0
		if !r.Method.Explicit() && cfg.IsEndMarker(s.Cell(row, r.StartCol)) {
			break
		}
		end = row
	}
	return end
}
