package mediaplan

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/parser"
)

// sheetOutcome is everything one sheet contributes to a result.
type sheetOutcome struct {
	summary models.SheetSummary
	records []*models.Record
	errs    []*ProcessingError
}

// processSheet runs detection, extraction and normalization for one sheet.
// A panic anywhere inside degrades to zero rows plus a recorded error.
func (p *Processor) processSheet(file, sheetName string, grid *parser.Sheet, format models.FileFormat) (out sheetOutcome) {
	out.summary = models.SheetSummary{Name: sheetName}
	defer func() {
		if r := recover(); r != nil {
			out.records = nil
			out.errs = append(out.errs, NewProcessingError(file, sheetName, "sheet", KindExtraction,
				eris.Wrapf(ErrPanic, "%v", r)))
		}
	}()

	platform := p.cfg.NormalizePlatform(sheetName)
	if platform == "" {
		out.summary.Skipped = true
		p.logger.Debug("process: skipping sheet", zap.String("file", file), zap.String("sheet", sheetName))
		return out
	}
	out.summary.Platform = platform

	s := parser.TrimToUsedBounds(grid)
	var det parser.Detection
	if refs := p.cfg.RegionRefs(sheetName, platform); len(refs) > 0 {
		regions, err := parser.ConfiguredRegions(s, p.cfg, format, refs)
		if err != nil {
			out.errs = append(out.errs, NewProcessingError(file, sheetName, "config", KindConfiguration, err))
			return out
		}
		det.Regions = regions
	} else {
		det = parser.DetectRegions(s, p.cfg, format, p.cfg.IgnoredColumns(sheetName, platform), p.logger)
	}
	out.summary.Markers = det.Markers.Total()
	out.summary.Regions = det.Regions
	if len(det.Regions) == 0 {
		out.errs = append(out.errs, NewProcessingError(file, sheetName, "sheet", KindDetection,
			eris.Wrapf(ErrNoRegions, "sheet %q", sheetName)))
		return out
	}

	var records []*models.Record
	for _, region := range det.Regions {
		recs, errs := p.processRegion(file, sheetName, platform, s, region, format)
		for _, err := range errs {
			err.Region = region.Index
		}
		out.errs = append(out.errs, errs...)
		records = append(records, recs...)
	}

	out.summary.RowsExtracted = len(records)
	rfBefore := countRF(records)
	mediaBefore := countSource(records, models.SourceDeliveredMedia)
	records = dedupRecords(records, scopeSheet)
	out.errs = append(out.errs, p.checkPreserved(file, sheetName, rfBefore, countRF(records), mediaBefore, countSource(records, models.SourceDeliveredMedia))...)
	out.summary.RowsKept = len(records)
	out.records = records

	p.logger.Info("process: sheet done",
		zap.String("file", file),
		zap.String("sheet", sheetName),
		zap.String("platform", platform),
		zap.Int("regions", len(det.Regions)),
		zap.Int("rows_extracted", out.summary.RowsExtracted),
		zap.Int("rows_kept", out.summary.RowsKept))
	return out
}

// processRegion extracts and normalizes one region and tags its rows. The
// sheet name is ground truth for PLATFORM on every row except R&F rows,
// which carry their metric label there. Rows are returned alongside any
// non-fatal errors.
func (p *Processor) processRegion(file, sheetName, platform string, s *parser.Sheet, region models.Region, format models.FileFormat) (recs []*models.Record, errs []*ProcessingError) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			errs = append(errs, NewProcessingError(file, sheetName, "region", KindExtraction, eris.Wrapf(ErrPanic, "%v", r)))
		}
	}()

	tbl, err := p.extractor.Extract(s, region)
	if err != nil {
		return nil, []*ProcessingError{NewProcessingError(file, sheetName, "region", KindExtraction, err)}
	}

	outcome := p.rf.Normalize(tbl, platform)
	if format == models.FormatDelivered && outcome.Class.RF && !outcome.Reshaped {
		errs = append(errs, NewProcessingError(file, sheetName, "region", KindNormalization,
			eris.Wrapf(ErrNoRFRows, "region %s", region.Ref)))
	}
	if !outcome.Reshaped {
		if unmapped := unmappedHeaders(outcome.Table); len(unmapped) > 0 {
			errs = append(errs, NewProcessingError(file, sheetName, "region", KindMapping,
				eris.Wrapf(ErrUnmappedHeaders, "region %s: %s", region.Ref, strings.Join(unmapped, ", "))))
		}
	}
	st := sourceTypeFor(format, outcome.Reshaped)
	recs = outcome.Table.Records()
	for _, rec := range recs {
		rec.Set(models.FieldSourceFile, models.Text(file))
		rec.Set(models.FieldSourceSheet, models.Text(sheetName))
		rec.Set(models.FieldSourceType, models.Text(string(st)))
		if !outcome.Reshaped {
			rec.Set(models.FieldPlatform, models.Text(platform))
		}
	}
	return recs, errs
}

// unmappedHeaders lists the non-blank headers of t that matched no canonical
// field. Blank spacer columns are not reported.
func unmappedHeaders(t models.Table) []string {
	var out []string
	for _, c := range t.Columns {
		if c.Key.Unmapped && strings.TrimSpace(c.Raw) != "" {
			out = append(out, strings.TrimSpace(c.Raw))
		}
	}
	return out
}
