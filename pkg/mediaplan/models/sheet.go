package models

// SheetSummary describes what happened to one sheet of a workbook.
type SheetSummary struct {
	// Name is the sheet name as it appears in the workbook.
	Name string `json:"name"`
	// Platform is the normalized platform name, empty when skipped.
	Platform string `json:"platform,omitempty"`
	// Skipped is set for sheets that match no platform alias.
	Skipped bool `json:"skipped,omitempty"`
	// Markers is the number of boundary sentinels found.
	Markers int `json:"markers"`
	// Regions contains the resolved data regions.
	Regions []Region `json:"regions,omitempty"`
	// RowsExtracted counts records before per-sheet dedup.
	RowsExtracted int `json:"rows_extracted"`
	// RowsKept counts records after per-sheet dedup.
	RowsKept int `json:"rows_kept"`
}
