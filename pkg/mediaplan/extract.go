package mediaplan

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/mapping"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/parser"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/rf"
)

// Result is the outcome of processing one workbook.
type Result struct {
	// RunID identifies this processing run.
	RunID string `json:"run_id"`
	// File is the workbook file name.
	File string `json:"file"`
	// Format is the detected or forced file format.
	Format models.FileFormat `json:"format"`
	// Success is false only when the workbook could not be read at all.
	Success bool `json:"success"`
	// Records are the finished canonical records.
	Records []*models.Record `json:"records"`
	// Summary describes every sheet.
	Summary models.WorkbookSummary `json:"summary"`
	// Errors lists every failure recorded while processing.
	Errors []*ProcessingError `json:"-"`
}

// ErrorStrings renders Errors for reports.
func (r *Result) ErrorStrings() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Error())
	}
	return out
}

// Processor drives the normalization pipeline over workbooks. It holds
// only read-only state and may process several workbooks concurrently.
type Processor struct {
	cfg       *config.Config
	opts      Options
	logger    *zap.Logger
	extractor *parser.Extractor
	rf        *rf.Normalizer
}

// NewProcessor returns a processor for cfg. A nil cfg selects the built-in
// defaults.
func NewProcessor(cfg *config.Config, opts Options) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.logger()
	return &Processor{
		cfg:       cfg,
		opts:      opts,
		logger:    logger,
		extractor: parser.NewExtractor(mapping.New(cfg.Columns), logger),
		rf:        rf.New(cfg, logger),
	}
}

// Process normalizes the workbook at path. Only a workbook that cannot be
// opened returns an error; every other failure is recorded in the result.
func (p *Processor) Process(ctx context.Context, path string) (*Result, error) {
	name := filepath.Base(path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, p.fatal(name, eris.Wrapf(err, "open workbook %s", path))
	}
	defer f.Close()
	return p.processWorkbook(ctx, f, name)
}

// ProcessReader normalizes a workbook read from r; name is used for format
// detection and Source_File.
func (p *Processor) ProcessReader(ctx context.Context, name string, r io.Reader) (*Result, error) {
	name = filepath.Base(name)
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, p.fatal(name, eris.Wrapf(err, "read workbook %s", name))
	}
	defer f.Close()
	return p.processWorkbook(ctx, f, name)
}

// ProcessBatch processes every path and returns one result per path, in
// order. A workbook that fails to open yields an unsuccessful result and
// the batch continues.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) []*Result {
	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.concurrency())
	for i, path := range paths {
		g.Go(func() error {
			res, err := p.Process(ctx, path)
			if err != nil {
				res = p.failedResult(path, err)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Processor) fatal(name string, err error) *ProcessingError {
	pe := NewProcessingError(name, "", "workbook", KindFatal, err)
	p.logger.Warn("process: workbook failed", zap.String("file", name), zap.Error(err))
	return pe
}

func (p *Processor) failedResult(path string, err error) *Result {
	name := filepath.Base(path)
	pe, ok := err.(*ProcessingError)
	if !ok {
		pe = NewProcessingError(name, "", "workbook", KindFatal, err)
	}
	return &Result{
		RunID:   uuid.NewString(),
		File:    name,
		Format:  p.formatFor(name),
		Success: false,
		Summary: models.WorkbookSummary{BookName: name, Format: p.formatFor(name)},
		Errors:  append(p.configErrors(name), pe),
	}
}

// configErrors reports a configuration load failure against a workbook.
func (p *Processor) configErrors(name string) []*ProcessingError {
	if p.opts.ConfigError == nil {
		return nil
	}
	return []*ProcessingError{NewProcessingError(name, "", "config", KindConfiguration, p.opts.ConfigError)}
}

func (p *Processor) formatFor(name string) models.FileFormat {
	if p.opts.Format != "" {
		return p.opts.Format
	}
	return DetectFormat(p.cfg, name)
}

func (p *Processor) processWorkbook(ctx context.Context, f *excelize.File, name string) (*Result, error) {
	format := p.formatFor(name)
	res := &Result{
		RunID:   uuid.NewString(),
		File:    name,
		Format:  format,
		Success: true,
		Summary: models.WorkbookSummary{BookName: name, Format: format},
		Errors:  p.configErrors(name),
	}

	// excelize reads are not guaranteed safe for concurrent use, so grids
	// are loaded up front and sheets fan out afterwards.
	sheetNames := f.GetSheetList()
	grids := make([]*parser.Sheet, len(sheetNames))
	outcomes := make([]sheetOutcome, len(sheetNames))
	for i, sheetName := range sheetNames {
		if p.cfg.NormalizePlatform(sheetName) == "" {
			continue
		}
		grid, err := parser.LoadSheet(f, sheetName)
		if err != nil {
			outcomes[i].summary = models.SheetSummary{Name: sheetName}
			outcomes[i].errs = append(outcomes[i].errs,
				NewProcessingError(name, sheetName, "sheet", KindExtraction, err))
			continue
		}
		grids[i] = grid
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.concurrency())
	for i, sheetName := range sheetNames {
		if grids[i] == nil && outcomes[i].errs != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processSheet(name, sheetName, grids[i], format)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrapf(err, "process workbook %s", name)
	}

	var records []*models.Record
	for _, o := range outcomes {
		res.Summary.Sheets = append(res.Summary.Sheets, o.summary)
		res.Errors = append(res.Errors, o.errs...)
		records = append(records, o.records...)
	}

	rfBefore := countRF(records)
	mediaBefore := countSource(records, models.SourceDeliveredMedia)
	records = dedupRecords(records, scopeWorkbook)
	res.Errors = append(res.Errors, p.checkPreserved(name, "", rfBefore, countRF(records), mediaBefore, countSource(records, models.SourceDeliveredMedia))...)

	for i, rec := range records {
		coerceRecord(rec)
		recomputeDerived(rec)
		records[i] = finalizeRecord(rec)
	}
	res.Records = records

	for _, e := range res.Errors {
		p.logger.Warn("process: recorded error",
			zap.String("file", e.File),
			zap.String("sheet", e.Sheet),
			zap.String("kind", string(e.Kind)),
			zap.Error(e.Err))
	}
	p.logger.Info("process: workbook done",
		zap.String("file", name),
		zap.String("format", string(format)),
		zap.Int("records", len(res.Records)),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

// checkPreserved verifies that dedup kept every R&F and delivered media row.
func (p *Processor) checkPreserved(file, sheet string, rfBefore, rfAfter, mediaBefore, mediaAfter int) []*ProcessingError {
	var errs []*ProcessingError
	if rfBefore != rfAfter {
		errs = append(errs, NewProcessingError(file, sheet, "dedup", KindValidation,
			&ValidationError{Sheet: sheet, Check: "reach & frequency rows preserved", Before: rfBefore, After: rfAfter}))
	}
	if mediaBefore != mediaAfter {
		errs = append(errs, NewProcessingError(file, sheet, "dedup", KindValidation,
			&ValidationError{Sheet: sheet, Check: "delivered media rows preserved", Before: mediaBefore, After: mediaAfter}))
	}
	return errs
}
