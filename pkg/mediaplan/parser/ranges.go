package parser

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

// RangeRef renders a region, header row included, as an A1 range such as
// "B7:C10".
func RangeRef(r models.Region) string {
	last := max(r.EndRow, r.HeaderRow)
	from, err := excelize.CoordinatesToCellName(r.StartCol+1, r.HeaderRow+1)
	if err != nil {
		return ""
	}
	to, err := excelize.CoordinatesToCellName(r.EndCol+1, last+1)
	if err != nil {
		return ""
	}
	return from + ":" + to
}

// ParseRange parses "B7:C10", "$B$7:$C$10" or "'Sheet'!B7:C10" into a
// region whose first row is the header. The sheet name, if any, is
// returned separately.
func ParseRange(ref string) (string, models.Region, error) {
	var sheet string
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		sheet = strings.Trim(ref[:idx], "'")
		ref = ref[idx+1:]
	}
	parts := strings.Split(strings.ReplaceAll(ref, "$", ""), ":")
	if len(parts) != 2 {
		return "", models.Region{}, eris.Errorf("invalid range %q", ref)
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return "", models.Region{}, eris.Wrapf(err, "invalid range %q", ref)
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return "", models.Region{}, eris.Wrapf(err, "invalid range %q", ref)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	return sheet, models.Region{
		HeaderRow: r1 - 1,
		StartRow:  r1,
		EndRow:    r2 - 1,
		StartCol:  c1 - 1,
		EndCol:    c2 - 1,
	}, nil
}
