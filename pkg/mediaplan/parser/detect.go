package parser

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

// Detection is the region layout of one sheet.
type Detection struct {
	Markers MarkerSet
	Regions []models.Region
}

// DetectRegions runs every detection strategy over a sheet: marker
// alignment first, the metrics detector for delivered reports, and header
// sniffing when markers yield nothing. Results are merged and numbered.
func DetectRegions(s *Sheet, cfg *config.Config, format models.FileFormat, ignore map[int]bool, logger *zap.Logger) Detection {
	if logger == nil {
		logger = zap.NewNop()
	}
	markers := ScanMarkers(s, cfg, ignore, logger)
	regions := ResolveMarkerRegions(s, markers, format, cfg)
	byMarkers := len(regions)

	if format == models.FormatDelivered {
		regions = append(regions, DetectMetricsRegions(s, cfg)...)
	}
	if byMarkers == 0 {
		regions = append(regions, DetectIdentifierRegions(s, cfg, format)...)
	}
	for i := range regions {
		if !regions[i].RFCandidate {
			regions[i].RFCandidate = isRFCandidate(s, cfg, regions[i])
		}
	}
	found := len(regions)
	regions = MergeRegions(s, cfg, regions)

	logger.Debug("detect: regions resolved",
		zap.String("sheet", s.Name),
		zap.Int("markers", markers.Total()),
		zap.Int("by_markers", byMarkers),
		zap.Int("candidates", found),
		zap.Int("regions", len(regions)))
	return Detection{Markers: markers, Regions: regions}
}

// ConfiguredRegions turns configured A1 ranges into regions in place of
// detection. A range may name its sheet ("'DV360'!B7:F20"); it must then be
// this sheet.
func ConfiguredRegions(s *Sheet, cfg *config.Config, format models.FileFormat, refs []string) ([]models.Region, error) {
	regions := make([]models.Region, 0, len(refs))
	for _, ref := range refs {
		sheet, r, err := ParseRange(ref)
		if err != nil {
			return nil, err
		}
		if sheet != "" && textnorm.Fold(sheet) != textnorm.Fold(s.Name) {
			return nil, eris.Errorf("range %q belongs to sheet %q, not %q", ref, sheet, s.Name)
		}
		r.Method = models.MethodConfigured
		r.Delivered = format == models.FormatDelivered
		r.RFCandidate = isRFCandidate(s, cfg, r)
		regions = append(regions, r)
	}
	return MergeRegions(s, cfg, regions), nil
}
