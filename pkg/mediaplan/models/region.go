package models

// MarkerType distinguishes boundary sentinels.
type MarkerType string

const (
	// MarkerStart opens a table box.
	MarkerStart MarkerType = "START"
	// MarkerEnd closes a table box.
	MarkerEnd MarkerType = "END"
)

// Marker is a boundary sentinel cell found in a sheet.
type Marker struct {
	Type MarkerType `json:"type"`
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
}

// DetectionMethod names the strategy that produced a region.
type DetectionMethod string

const (
	MethodMarkers         DetectionMethod = "markers"
	MethodIdentifier      DetectionMethod = "identifier"
	MethodIdentifierGroup DetectionMethod = "identifier_group"
	MethodMetrics         DetectionMethod = "metrics"
	// MethodConfigured marks a range given in the configuration.
	MethodConfigured DetectionMethod = "configured"
)

// Rank orders methods by trust; merging keeps the higher one.
func (m DetectionMethod) Rank() int {
	switch m {
	case MethodConfigured:
		return 4
	case MethodMarkers:
		return 3
	case MethodMetrics:
		return 2
	case MethodIdentifierGroup:
		return 1
	default:
		return 0
	}
}

// Explicit reports whether the region bounds were stated in the workbook or
// the configuration rather than inferred.
func (m DetectionMethod) Explicit() bool {
	return m == MethodMarkers || m == MethodConfigured
}

// Heuristic reports whether the region came from header sniffing rather
// than explicit sentinels.
func (m DetectionMethod) Heuristic() bool {
	return m == MethodIdentifier || m == MethodIdentifierGroup
}

// Region is a rectangular data area inside a sheet. All bounds are 0-based
// and inclusive; HeaderRow < StartRow <= EndRow and StartCol <= EndCol for a
// non-empty region.
type Region struct {
	// HeaderRow is the row holding column headers.
	HeaderRow int `json:"header_row"`
	// StartRow is the first data row.
	StartRow int `json:"start_row"`
	// EndRow is the last data row.
	EndRow int `json:"end_row"`
	// StartCol is the leftmost column.
	StartCol int `json:"start_col"`
	// EndCol is the rightmost column.
	EndCol int `json:"end_col"`
	// Method is the detection strategy.
	Method DetectionMethod `json:"detection_method"`
	// Delivered marks regions found in delivered-format workbooks.
	Delivered bool `json:"is_delivered_format"`
	// RFCandidate marks a likely reach & frequency sub-table.
	RFCandidate bool `json:"rf_table_candidate"`
	// Index is the region ordinal within its sheet.
	Index int `json:"region_index"`
	// Ref is the A1 range of the region including its header row.
	Ref string `json:"ref,omitempty"`
}

// Rows is the number of data rows (zero for an empty region).
func (r Region) Rows() int {
	if r.EndRow < r.StartRow {
		return 0
	}
	return r.EndRow - r.StartRow + 1
}

// FileFormat is the workbook flavour inferred from its file name.
type FileFormat string

const (
	FormatPlanned   FileFormat = "planned"
	FormatDelivered FileFormat = "delivered"
	FormatUnknown   FileFormat = "unknown"
)

// SourceType tags records for dedup eligibility.
type SourceType string

const (
	SourcePlanned        SourceType = "PLANNED"
	SourceDeliveredMedia SourceType = "DELIVERED MEDIA"
	SourceDeliveredRF    SourceType = "DELIVERED R&F"
	SourceOther          SourceType = "OTHER"
)
