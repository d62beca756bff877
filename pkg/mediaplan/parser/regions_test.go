package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func TestScanMarkers(t *testing.T) {
	cfg := config.Default()
	s := grid(6, 5, map[[2]int]string{
		{0, 0}: "start",
		{0, 1}: "Début",
		{3, 0}: " END ",
		{3, 1}: "weekend",
		{4, 3}: "END",
	})

	set := ScanMarkers(s, cfg, map[int]bool{3: true}, nil)
	assert.Equal(t, 2, set.Starts)
	assert.Equal(t, 1, set.Ends)
	assert.Equal(t, models.Marker{Type: models.MarkerStart, Row: 0, Col: 0}, set.Positions["START_1"])
	assert.Equal(t, models.Marker{Type: models.MarkerStart, Row: 0, Col: 1}, set.Positions["START_2"])
	assert.Equal(t, models.Marker{Type: models.MarkerEnd, Row: 3, Col: 0}, set.Positions["END_1"])
}

func TestScanMarkersDumpsSheetWhenEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := grid(2, 2, map[[2]int]string{{0, 0}: "Market", {1, 0}: "UAE"})

	set := ScanMarkers(s, config.Default(), nil, zap.New(core))
	assert.Zero(t, set.Total())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Sheet1", logs.All()[0].ContextMap()["sheet"])
}

// boxSheet lays out the reference box: STARTs at (5,1),(5,2), ENDs at
// (10,1),(10,2), headers on row 6 and data on rows 7-9.
func boxSheet() *Sheet {
	cells := map[[2]int]string{
		{5, 1}: "START", {5, 2}: "START",
		{6, 1}: "Market", {6, 2}: "Budget",
		{10, 1}: "END", {10, 2}: "END",
	}
	for r, m := range []string{"UAE", "KSA", "QAT"} {
		cells[[2]int{7 + r, 1}] = m
		cells[[2]int{7 + r, 2}] = "1000"
	}
	return grid(12, 4, cells)
}

func TestResolveMarkerRegionsBox(t *testing.T) {
	cfg := config.Default()
	s := boxSheet()

	regions := ResolveMarkerRegions(s, ScanMarkers(s, cfg, nil, nil), models.FormatUnknown, cfg)
	require.Len(t, regions, 1)
	r := regions[0]
	assert.Equal(t, 6, r.HeaderRow)
	assert.Equal(t, 7, r.StartRow)
	assert.Equal(t, 9, r.EndRow)
	assert.Equal(t, 1, r.StartCol)
	assert.Equal(t, 2, r.EndCol)
	assert.Equal(t, models.MethodMarkers, r.Method)
}

func TestDetectRegionsBox(t *testing.T) {
	s := boxSheet()
	det := DetectRegions(s, config.Default(), models.FormatUnknown, nil, nil)
	require.Len(t, det.Regions, 1)
	assert.Equal(t, "B7:C10", det.Regions[0].Ref)
	assert.Equal(t, 0, det.Regions[0].Index)
	assert.Equal(t, 4, det.Markers.Total())
}

func TestResolveMarkerRegionsSideBySide(t *testing.T) {
	cfg := config.Default()
	cells := map[[2]int]string{
		{0, 0}: "START", {0, 1}: "START",
		{0, 5}: "START", {0, 6}: "START",
		{1, 0}: "Market", {1, 1}: "Budget",
		{1, 5}: "Market", {1, 6}: "Impressions",
		{2, 0}: "UAE", {2, 1}: "10",
		{2, 5}: "KSA", {2, 6}: "20",
		{3, 0}: "END", {3, 1}: "END",
		{3, 5}: "END", {3, 6}: "END",
	}
	s := grid(4, 7, cells)

	regions := ResolveMarkerRegions(s, ScanMarkers(s, cfg, nil, nil), models.FormatUnknown, cfg)
	require.Len(t, regions, 2)
	assert.Equal(t, 0, regions[0].StartCol)
	assert.Equal(t, 1, regions[0].EndCol)
	assert.Equal(t, 5, regions[1].StartCol)
	assert.Equal(t, 6, regions[1].EndCol)
}

func TestResolveMarkerRegionsStacked(t *testing.T) {
	cfg := config.Default()
	cells := map[[2]int]string{
		{0, 0}: "START", {0, 1}: "START",
		{1, 0}: "Market", {1, 1}: "Budget",
		{2, 0}: "UAE", {2, 1}: "10",
		{3, 0}: "END", {3, 1}: "END",
		{5, 0}: "START", {5, 1}: "START",
		{6, 0}: "Market", {6, 1}: "Budget",
		{7, 0}: "KSA", {7, 1}: "20",
		{8, 0}: "KSA", {8, 1}: "30",
		{9, 0}: "END", {9, 1}: "END",
	}
	s := grid(10, 2, cells)

	regions := ResolveMarkerRegions(s, ScanMarkers(s, cfg, nil, nil), models.FormatUnknown, cfg)
	require.Len(t, regions, 2)
	assert.Equal(t, 2, regions[0].StartRow)
	assert.Equal(t, 2, regions[0].EndRow)
	assert.Equal(t, 7, regions[1].StartRow)
	assert.Equal(t, 8, regions[1].EndRow)
}

func TestResolveMarkerRegionsMisaligned(t *testing.T) {
	cfg := config.Default()
	cells := map[[2]int]string{
		{0, 0}: "START", {0, 1}: "START", {0, 2}: "START",
		{1, 0}: "Market", {1, 1}: "Budget", {1, 2}: "Imps",
		{2, 0}: "UAE", {2, 1}: "10", {2, 2}: "20",
		{3, 0}: "END", {3, 1}: "END",
	}
	s := grid(4, 3, cells)
	markers := ScanMarkers(s, cfg, nil, nil)

	assert.Empty(t, ResolveMarkerRegions(s, markers, models.FormatPlanned, cfg))

	relaxed := ResolveMarkerRegions(s, markers, models.FormatDelivered, cfg)
	require.Len(t, relaxed, 1)
	assert.True(t, relaxed[0].Delivered)
}

func TestResolveMarkerRegionsMisalignedWithoutSignature(t *testing.T) {
	cfg := config.Default()
	cells := map[[2]int]string{
		{0, 0}: "START", {0, 1}: "START", {0, 2}: "START",
		{1, 0}: "Brand", {1, 1}: "Budget", {1, 2}: "Imps",
		{2, 0}: "Acme", {2, 1}: "10", {2, 2}: "20",
		{3, 0}: "END", {3, 1}: "END",
	}
	s := grid(4, 3, cells)
	markers := ScanMarkers(s, cfg, nil, nil)

	assert.Empty(t, ResolveMarkerRegions(s, markers, models.FormatUnknown, cfg))

	relaxed := ResolveMarkerRegions(s, markers, models.FormatDelivered, cfg)
	require.Len(t, relaxed, 1, "delivered boxes need no header signature when an END closes them")
	assert.Equal(t, 2, relaxed[0].EndRow)
}

func TestResolveMarkerRegionsDeliveredMediaSection(t *testing.T) {
	cfg := config.Default()
	cells := map[[2]int]string{
		{11, 1}: "START", {11, 2}: "START",
		{12, 1}: "Market", {12, 2}: "Budget",
		{13, 1}: "UAE", {13, 2}: "10",
		{14, 1}: "KSA", {14, 2}: "20",
		{15, 1}: "QAT", {15, 2}: "30",
		{17, 2}: "Grand spend 60",
		{19, 1}: "END", {19, 2}: "END",
	}
	s := grid(20, 3, cells)

	regions := ResolveMarkerRegions(s, ScanMarkers(s, cfg, nil, nil), models.FormatDelivered, cfg)
	require.Len(t, regions, 1)
	assert.Equal(t, 13, regions[0].StartRow)
	assert.Equal(t, 15, regions[0].EndRow, "media section ends at the first empty market cell")
}

func TestResolveMarkerRegionsPlannedOverride(t *testing.T) {
	cfg := config.Default()
	cells := map[[2]int]string{
		{0, 0}: "START", {0, 1}: "START", {0, 2}: "START",
		{1, 0}: "", {1, 1}: "Market", {1, 2}: "Budget",
		{2, 0}: "START", {2, 1}: "UAE", {2, 2}: "10",
		{3, 0}: "START", {3, 1}: "KSA", {3, 2}: "20",
		{4, 0}: "", {4, 1}: "Notes", {4, 2}: "",
		{5, 0}: "", {5, 1}: "", {5, 2}: "",
		{6, 0}: "END", {6, 1}: "END", {6, 2}: "END",
	}
	s := grid(7, 3, cells)

	regions := ResolveMarkerRegions(s, ScanMarkers(s, cfg, nil, nil), models.FormatPlanned, cfg)
	require.Len(t, regions, 1)
	assert.Equal(t, 1, regions[0].HeaderRow)
	assert.Equal(t, 2, regions[0].StartRow)
	assert.Equal(t, 3, regions[0].EndRow)
	assert.Equal(t, 1, regions[0].StartCol)
	assert.Equal(t, 2, regions[0].EndCol)
}

func TestResolveMarkerRegionsRejectsUnclosedBox(t *testing.T) {
	cfg := config.Default()
	s := grid(4, 2, map[[2]int]string{
		{0, 0}: "START", {0, 1}: "START",
		{1, 0}: "Market", {1, 1}: "Budget",
		{2, 0}: "UAE", {2, 1}: "10",
	})
	assert.Empty(t, ResolveMarkerRegions(s, ScanMarkers(s, cfg, nil, nil), models.FormatPlanned, cfg))
}
