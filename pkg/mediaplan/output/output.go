// Package output renders normalized records: a canonical string table, a
// JSON document and a canonical xlsx workbook.
package output

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/parser"
)

// Placeholder renders absent values in tabular output.
const Placeholder = "-"

// Project renders records as a string table. The first row is the canonical
// header; absent values become Placeholder. Non-canonical fields are dropped.
func Project(recs []*models.Record) [][]string {
	out := make([][]string, 0, len(recs)+1)
	out = append(out, append([]string(nil), models.CanonicalColumns...))
	for _, rec := range recs {
		row := make([]string, len(models.CanonicalColumns))
		for i, name := range models.CanonicalColumns {
			row[i] = render(rec.Get(name))
		}
		out = append(out, row)
	}
	return out
}

func render(v models.Value) string {
	if v.IsNull() {
		return Placeholder
	}
	return v.String()
}

// FromTable parses a projected table back into records. Placeholder cells
// become null and numeric fields become numbers.
func FromTable(rows [][]string) ([]*models.Record, error) {
	if len(rows) == 0 {
		return nil, eris.New("table has no header row")
	}
	header := rows[0]
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			return nil, eris.Errorf("header column %d is empty", i)
		}
	}

	recs := make([]*models.Record, 0, len(rows)-1)
	for r, row := range rows[1:] {
		rec := models.NewRecord()
		for i, name := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			v, err := parseCell(name, cell)
			if err != nil {
				return nil, eris.Wrapf(err, "row %d", r+2)
			}
			rec.Set(name, v)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseCell(field, cell string) (models.Value, error) {
	if cell == Placeholder || strings.TrimSpace(cell) == "" {
		return models.Null(), nil
	}
	if !models.IsNumericField(field) {
		return models.Text(cell), nil
	}
	n, _, ok := parser.ParseNumber(cell)
	if !ok {
		return models.Null(), eris.Errorf("%s: %q is not a number", field, cell)
	}
	return models.Number(n), nil
}

// Document is the JSON shape of a run.
type Document struct {
	Results []ResultView `json:"results"`
}

// ResultView is one workbook result with errors rendered as strings.
type ResultView struct {
	*mediaplan.Result
	Errors []string `json:"errors"`
}

// ToJSON serializes results, optionally indented.
func ToJSON(results []*mediaplan.Result, pretty bool) ([]byte, error) {
	doc := Document{Results: make([]ResultView, 0, len(results))}
	for _, r := range results {
		doc.Results = append(doc.Results, ResultView{Result: r, Errors: r.ErrorStrings()})
	}
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, eris.Wrap(err, "marshal results")
	}
	return data, nil
}
