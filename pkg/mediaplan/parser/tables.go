package parser

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/mapping"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

// ErrInvalidRegion is returned for regions outside the sheet or with
// inverted bounds.
var ErrInvalidRegion = eris.New("invalid region")

// naTokens are cell texts read as missing values.
var naTokens = map[string]bool{
	"":     true,
	"None": true,
	"nan":  true,
	"NaN":  true,
	"N/A":  true,
	"n/a":  true,
	"#N/A": true,
	"NA":   true,
}

// IsNAToken reports whether a trimmed cell text denotes a missing value.
func IsNAToken(s string) bool { return naTokens[s] }

// marketIndicators mark a column as holding markets.
var marketIndicators = [][]string{{"MARKET"}, {"MARKETS"}, {"COUNTRY"}, {"GEO"}, {"REGION"}}

// Extractor materializes regions into raw and canonical-mapped tables.
type Extractor struct {
	mapper *mapping.Mapper
	logger *zap.Logger
}

// NewExtractor returns an extractor. A nil logger discards output.
func NewExtractor(mapper *mapping.Mapper, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{mapper: mapper, logger: logger}
}

// Extract reads the header and data rows of a region. Rows are cut to the
// header width, so ragged input never changes the column count.
func (e *Extractor) Extract(s *Sheet, r models.Region) (*models.ExtractedTable, error) {
	if r.HeaderRow < 0 || r.HeaderRow >= s.NumRows() || r.StartCol < 0 || r.EndCol < r.StartCol {
		return nil, eris.Wrapf(ErrInvalidRegion, "sheet %q region %d (%s)", s.Name, r.Index, RangeRef(r))
	}

	corrected, shifted := CorrectColumnShift(s, r, e.mapper)
	if shifted {
		e.logger.Info("extract: shifted region one column left",
			zap.String("sheet", s.Name),
			zap.Int("region", r.Index),
			zap.String("from", RangeRef(r)),
			zap.String("to", RangeRef(corrected)))
		r = corrected
	}

	out := &models.ExtractedTable{
		Region:     r,
		RawHeaders: s.Row(r.HeaderRow, r.StartCol, r.EndCol),
		Shifted:    shifted,
	}
	for row := r.StartRow; row <= r.EndRow && row < s.NumRows(); row++ {
		out.RawRows = append(out.RawRows, s.Row(row, r.StartCol, r.EndCol))
	}

	keys := make([]models.FieldKey, len(out.RawHeaders))
	cols := make([]models.Column, len(out.RawHeaders))
	for i, h := range out.RawHeaders {
		m := e.mapper.Resolve(h, i)
		keys[i] = m.Key
		cols[i] = models.Column{Raw: h, Confidence: m.Confidence}
	}
	for i, k := range models.Disambiguate(keys) {
		cols[i].Key = k
	}
	out.Mapped.Columns = cols

	for _, raw := range out.RawRows {
		values := make([]models.Value, len(cols))
		for i := range cols {
			values[i] = models.Null()
			if i < len(raw) && !IsNAToken(raw[i]) {
				values[i] = models.Text(raw[i])
			}
		}
		out.Mapped.Rows = append(out.Mapped.Rows, values)
	}
	return out, nil
}

// CorrectColumnShift moves a region one column left when none of its
// headers maps to MARKET but the cell left of its header row names a
// market column. Off-by-one detection happens in delivered media tables
// whose market header sits outside the marker box.
func CorrectColumnShift(s *Sheet, r models.Region, mapper *mapping.Mapper) (models.Region, bool) {
	if r.StartCol == 0 {
		return r, false
	}
	for i, h := range s.Row(r.HeaderRow, r.StartCol, r.EndCol) {
		if h != "" && mapper.Resolve(h, i).Name() == models.FieldMarket {
			return r, false
		}
	}
	if !matchesAny(s.Cell(r.HeaderRow, r.StartCol-1), marketIndicators) {
		return r, false
	}
	r.StartCol--
	r.EndCol--
	r.Ref = RangeRef(r)
	return r, true
}
