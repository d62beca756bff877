package output

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

// Sheet names of the canonical workbook.
const (
	CanonicalSheet = "Canonical"
	ErrorsSheet    = "Errors"
)

var errorsHeader = []string{"File", "Sheet", "Component", "Region", "Kind", "Error"}

// WriteXLSX writes the records of every result to a Canonical sheet and
// their errors to an Errors sheet.
func WriteXLSX(w io.Writer, results ...*mediaplan.Result) error {
	f, err := buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "write workbook")
	}
	return nil
}

// SaveXLSX writes the canonical workbook to path.
func SaveXLSX(path string, results ...*mediaplan.Result) error {
	f, err := buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "save workbook %s", path)
	}
	return nil
}

func buildWorkbook(results []*mediaplan.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", CanonicalSheet); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "rename canonical sheet")
	}

	var recs []*models.Record
	var errs []*mediaplan.ProcessingError
	for _, r := range results {
		recs = append(recs, r.Records...)
		errs = append(errs, r.Errors...)
	}

	if err := writeRow(f, CanonicalSheet, 1, toAny(models.CanonicalColumns)); err != nil {
		f.Close()
		return nil, err
	}
	for i, rec := range recs {
		if err := writeRow(f, CanonicalSheet, i+2, typedRow(rec)); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetPanes(CanonicalSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "freeze header")
	}

	if _, err := f.NewSheet(ErrorsSheet); err != nil {
		f.Close()
		return nil, eris.Wrap(err, "add errors sheet")
	}
	if err := writeRow(f, ErrorsSheet, 1, toAny(errorsHeader)); err != nil {
		f.Close()
		return nil, err
	}
	for i, e := range errs {
		row := []any{e.File, e.Sheet, e.Component, e.Region, string(e.Kind), message(e)}
		if err := writeRow(f, ErrorsSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func message(e *mediaplan.ProcessingError) string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// typedRow keeps numbers numeric in the sheet.
func typedRow(rec *models.Record) []any {
	row := make([]any, len(models.CanonicalColumns))
	for i, name := range models.CanonicalColumns {
		v := rec.Get(name)
		switch v.Kind {
		case models.KindNumber:
			row[i] = v.Num
		case models.KindText:
			row[i] = v.Text
		default:
			row[i] = Placeholder
		}
	}
	return row
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return eris.Wrapf(err, "row %d", row)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return eris.Wrapf(err, "write %s!%s", sheet, cell)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ReadXLSX loads the records of a canonical workbook written by WriteXLSX.
func ReadXLSX(r io.Reader) ([]*models.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "open canonical workbook")
	}
	defer f.Close()
	rows, err := f.GetRows(CanonicalSheet)
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %s", CanonicalSheet)
	}
	return FromTable(rows)
}
