package parser

// findDataBounds finds the bounding box of non-empty cells. All four
// results are -1 for a blank sheet.
func findDataBounds(s *Sheet) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx := 0; rowIdx < s.NumRows(); rowIdx++ {
		for colIdx := 0; colIdx < s.NumCols(); colIdx++ {
			if s.Cell(rowIdx, colIdx) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// TrimToUsedBounds drops trailing blank rows and columns. Leading blanks
// are kept so coordinates still match the workbook.
func TrimToUsedBounds(s *Sheet) *Sheet {
	_, maxRow, _, maxCol := findDataBounds(s)
	if maxRow < 0 {
		return &Sheet{Name: s.Name}
	}
	rows := make([][]string, maxRow+1)
	for r := range rows {
		rows[r] = s.Row(r, 0, maxCol)
	}
	return NewSheet(s.Name, rows)
}
