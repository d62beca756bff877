package models

// WorkbookSummary is workbook-level metadata with per-sheet summaries.
type WorkbookSummary struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Format is the detected or forced file format.
	Format FileFormat `json:"format"`
	// Sheets lists every sheet in workbook order.
	Sheets []SheetSummary `json:"sheets"`
}
