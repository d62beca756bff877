package parser

import (
	"sort"
	"strings"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

const (
	// deliveredMediaStartRow is the first data row of the media section in
	// delivered reports; its bottom END marker is not reliable.
	deliveredMediaStartRow = 13
	// marketKeyCol is column B, holding market names in both layouts.
	marketKeyCol = 1
)

// ResolveMarkerRegions aligns START/END sentinels into rectangular regions.
//
// Every unused START, in (row, col) order, anchors a candidate box: the run
// of STARTs on its row is the top edge, the STARTs below it in the anchor
// column form the left edge, the first row of ENDs below the left edge and
// inside the top span is the bottom edge, and ENDs in the rightmost column
// between top and bottom form the right edge. Markers of an accepted box
// are consumed and cannot anchor another region.
func ResolveMarkerRegions(s *Sheet, markers MarkerSet, format models.FileFormat, vocab Vocabulary) []models.Region {
	delivered := format == models.FormatDelivered
	starts := markers.ofType(models.MarkerStart)
	ends := markers.ofType(models.MarkerEnd)
	used := make(map[string]bool)

	var regions []models.Region
	for _, anchor := range starts {
		if used[anchor.key] {
			continue
		}

		top := topEdge(s, starts, used, anchor)
		leftCol, rightCol := anchor.Col, top[len(top)-1].Col

		bottomRows := endRowsBelow(ends, used, anchor.Row, leftCol, rightCol)
		limit := s.NumRows()
		if len(bottomRows) > 0 {
			limit = bottomRows[0]
		}
		var left []keyedMarker
		leftBottom := anchor.Row
		for _, m := range starts {
			if !used[m.key] && m.Col == leftCol && m.Row > anchor.Row && m.Row < limit {
				left = append(left, m)
				leftBottom = m.Row
			}
		}

		bottomRow := -1
		for _, r := range bottomRows {
			if r > leftBottom {
				bottomRow = r
				break
			}
		}
		var bottom []keyedMarker
		if bottomRow >= 0 {
			for _, m := range ends {
				if !used[m.key] && m.Row == bottomRow && m.Col >= leftCol && m.Col <= rightCol {
					bottom = append(bottom, m)
				}
			}
		}

		headerRow := anchor.Row + 1
		signature := rfHeaderSignature(s.Cell(headerRow, leftCol))
		if len(bottom) > 0 {
			// delivered reports close boxes loosely: any END under the top
			// edge is enough
			aligned := bottom[0].Col == leftCol && bottom[len(bottom)-1].Col == rightCol
			if !aligned && !delivered {
				continue
			}
		} else if !delivered || (headerRow+1 < deliveredMediaStartRow && !signature) {
			continue
		}

		var right []keyedMarker
		if bottomRow >= 0 {
			for _, m := range ends {
				if !used[m.key] && m.Col == rightCol && m.Row > anchor.Row && m.Row < bottomRow {
					right = append(right, m)
				}
			}
		}

		region := models.Region{
			HeaderRow: headerRow,
			StartRow:  headerRow + 1,
			EndRow:    bottomRow - 1,
			StartCol:  leftCol,
			EndCol:    rightCol,
			Method:    models.MethodMarkers,
			Delivered: delivered,
		}
		switch {
		case delivered && region.StartRow >= deliveredMediaStartRow:
			region.EndRow = scanMediaSection(s, region.StartRow, vocab)
		case delivered && bottomRow < 0:
			region.EndRow = scanUntilBlank(s, region.StartRow, leftCol, rightCol, vocab)
		case format == models.FormatPlanned:
			if first, last, ok := plannedDataRows(s, headerRow, vocab); ok {
				region.StartRow, region.EndRow = first, last
				// column A only carries the row markers
				if region.StartCol < marketKeyCol && region.EndCol >= marketKeyCol {
					region.StartCol = marketKeyCol
				}
			}
		}

		if !validMarkerRegion(s, region) {
			continue
		}

		for _, group := range [][]keyedMarker{top, left, bottom, right} {
			for _, m := range group {
				used[m.key] = true
			}
		}
		regions = append(regions, region)
	}
	return regions
}

// topEdge collects the horizontal run of unused STARTs on the anchor row.
// Two STARTs belong to the same run when adjacent or when the header cells
// between them are all filled; a blank gap separates side-by-side tables.
func topEdge(s *Sheet, starts []keyedMarker, used map[string]bool, anchor keyedMarker) []keyedMarker {
	run := []keyedMarker{anchor}
	prev := anchor.Col
	for _, m := range starts {
		if used[m.key] || m.Row != anchor.Row || m.Col <= anchor.Col {
			continue
		}
		if m.Col != prev+1 && !filledBetween(s, anchor.Row+1, prev, m.Col) {
			break
		}
		run = append(run, m)
		prev = m.Col
	}
	return run
}

func filledBetween(s *Sheet, row, from, to int) bool {
	for c := from + 1; c < to; c++ {
		if s.Cell(row, c) == "" {
			return false
		}
	}
	return true
}

// endRowsBelow lists distinct rows below row holding unused ENDs in span.
func endRowsBelow(ends []keyedMarker, used map[string]bool, row, first, last int) []int {
	seen := make(map[int]bool)
	var rows []int
	for _, m := range ends {
		if used[m.key] || m.Row <= row || m.Col < first || m.Col > last || seen[m.Row] {
			continue
		}
		seen[m.Row] = true
		rows = append(rows, m.Row)
	}
	sort.Ints(rows)
	return rows
}

// rfHeaderSignature reports a first header cell of the reach & frequency
// layout ("METRICS", "MARKET").
func rfHeaderSignature(cell string) bool {
	f := textnorm.Fold(cell)
	return strings.Contains(f, "METRIC") || strings.Contains(f, "MARKET")
}

// scanMediaSection extends a delivered media table from start until the
// market column is empty or holds END.
func scanMediaSection(s *Sheet, start int, vocab Vocabulary) int {
	end := start - 1
	for r := start; r < s.NumRows(); r++ {
		cell := s.Cell(r, marketKeyCol)
		if cell == "" || vocab.IsEndMarker(cell) {
			break
		}
		end = r
	}
	return end
}

// scanUntilBlank extends a table from start until a blank row or a row
// whose first cell is an END marker.
func scanUntilBlank(s *Sheet, start, first, last int, vocab Vocabulary) int {
	end := start - 1
	for r := start; r < s.NumRows(); r++ {
		if s.RowBlank(r, first, last) || vocab.IsEndMarker(s.Cell(r, first)) {
			break
		}
		end = r
	}
	return end
}

// plannedDataRows finds the run of rows carrying START in column A and a
// market name in column B below the header. Planned plans mark every data
// row this way, while the enclosing marker box can be wider than the data.
func plannedDataRows(s *Sheet, headerRow int, vocab Vocabulary) (int, int, bool) {
	first, last := -1, -1
	for r := headerRow + 1; r < s.NumRows(); r++ {
		paired := vocab.IsStartMarker(s.Cell(r, 0)) && s.Cell(r, marketKeyCol) != ""
		if paired {
			if first < 0 {
				first = r
			}
			last = r
			continue
		}
		if first >= 0 {
			break
		}
	}
	return first, last, first >= 0
}

func validMarkerRegion(s *Sheet, r models.Region) bool {
	if r.HeaderRow < 0 || r.HeaderRow >= s.NumRows() {
		return false
	}
	if r.EndCol < r.StartCol {
		return false
	}
	if r.Delivered {
		return r.EndRow >= r.StartRow-1
	}
	return r.EndRow >= r.StartRow
}
