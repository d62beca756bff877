package parser

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

// Vocabulary recognizes boundary sentinel cells.
type Vocabulary interface {
	IsStartMarker(cell string) bool
	IsEndMarker(cell string) bool
}

// MarkerSet is the outcome of one sheet scan.
type MarkerSet struct {
	// Positions maps "START_1", "END_3", ... to cell positions.
	Positions map[string]models.Marker
	Starts    int
	Ends      int
}

// Total is the number of markers found.
func (m MarkerSet) Total() int { return m.Starts + m.Ends }

// keyedMarker pairs a marker with its key in MarkerSet.Positions.
type keyedMarker struct {
	key string
	models.Marker
}

// ofType returns markers of one type sorted by (row, col).
func (m MarkerSet) ofType(t models.MarkerType) []keyedMarker {
	var out []keyedMarker
	for k, pos := range m.Positions {
		if pos.Type == t {
			out = append(out, keyedMarker{key: k, Marker: pos})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// ScanMarkers visits every cell once and records START/END sentinels.
// Columns in ignore never yield markers, so a data column that happens to
// hold the word "END" cannot close a table.
func ScanMarkers(s *Sheet, vocab Vocabulary, ignore map[int]bool, logger *zap.Logger) MarkerSet {
	set := MarkerSet{Positions: make(map[string]models.Marker)}
	for r := 0; r < s.NumRows(); r++ {
		for c := 0; c < s.NumCols(); c++ {
			if ignore[c] {
				continue
			}
			cell := s.Cell(r, c)
			if cell == "" {
				continue
			}
			switch {
			case vocab.IsStartMarker(cell):
				set.Starts++
				set.Positions[fmt.Sprintf("%s_%d", models.MarkerStart, set.Starts)] = models.Marker{Type: models.MarkerStart, Row: r, Col: c}
			case vocab.IsEndMarker(cell):
				set.Ends++
				set.Positions[fmt.Sprintf("%s_%d", models.MarkerEnd, set.Ends)] = models.Marker{Type: models.MarkerEnd, Row: r, Col: c}
			}
		}
	}

	if set.Total() == 0 && logger != nil {
		if ce := logger.Check(zap.DebugLevel, "markers: none found, dumping sheet"); ce != nil {
			ce.Write(zap.String("sheet", s.Name), zap.Strings("rows", dumpRows(s)))
		}
	}
	return set
}

func dumpRows(s *Sheet) []string {
	out := make([]string, 0, s.NumRows())
	for r := 0; r < s.NumRows(); r++ {
		out = append(out, fmt.Sprintf("%d: %s", r, strings.Join(s.Row(r, 0, s.NumCols()-1), " | ")))
	}
	return out
}
