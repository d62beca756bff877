// Package rf detects reach & frequency sub-tables and reshapes them from
// the wide layout (metric rows x market columns) into canonical rows.
package rf

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/parser"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

// metricIndicators are word prefixes of R&F row labels.
var metricIndicators = []string{"REACH", "FREQ", "CAMPAIGN", "AWARENESS", "CONSIDERATION", "PURCHASE"}

// strongMetricCount metric labels classify a table as R&F whatever the
// number of market names next to them.
const strongMetricCount = 6

// Classification explains an R&F decision.
type Classification struct {
	RF         bool
	MetricHits int
	MarketHits int
	// Strong is set when a METRICS header or a known R&F label decided.
	Strong bool
}

// Outcome is the result of normalizing one extracted table.
type Outcome struct {
	Table    models.Table
	Class    Classification
	Reshaped bool
}

// Normalizer classifies and reshapes R&F tables. It holds no mutable state.
type Normalizer struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New returns a normalizer. A nil logger discards output.
func New(cfg *config.Config, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{cfg: cfg, logger: logger}
}

// Normalize reshapes confirmed R&F tables of delivered reports. Any other
// table, or one whose reshape yields no rows, passes through unchanged.
func (n *Normalizer) Normalize(t *models.ExtractedTable, platform string) Outcome {
	out := Outcome{Table: t.Mapped, Class: n.Classify(t, platform)}
	if !out.Class.RF || !t.Region.Delivered {
		return out
	}
	reshaped := n.Reshape(t)
	if len(reshaped.Rows) == 0 {
		n.logger.Debug("rf: reshape produced no rows, keeping table",
			zap.Int("region", t.Region.Index), zap.String("platform", platform))
		return out
	}
	out.Table = reshaped
	out.Reshaped = true
	return out
}

// Classify decides whether a table is in the R&F layout.
func (n *Normalizer) Classify(t *models.ExtractedTable, platform string) Classification {
	if len(t.RawHeaders) == 0 {
		return Classification{}
	}
	first := textnorm.Fold(t.RawHeaders[0])
	if t.Region.Delivered {
		return n.classifyDelivered(t, first)
	}

	if strings.Contains(first, "REACH") || strings.Contains(first, "FREQ") || strings.Contains(first, "METRIC") {
		return Classification{RF: true, Strong: true}
	}
	rest := t.RawHeaders[1:]
	if len(rest) == 0 {
		return Classification{}
	}
	markets := 0
	for _, h := range rest {
		if n.cfg.IsMarket(h) {
			markets++
		}
	}
	return Classification{
		RF:         float64(markets)/float64(len(rest)) >= n.cfg.RFThreshold(platform),
		MarketHits: markets,
	}
}

func (n *Normalizer) classifyDelivered(t *models.ExtractedTable, first string) Classification {
	hint := strings.Contains(first, "METRIC") || strings.Contains(first, "MARKET") ||
		t.Region.Method == models.MethodMetrics
	if !hint {
		return Classification{}
	}

	col := t.Mapped.ColumnIndex(models.FieldMarket)
	if col < 0 {
		col = 0
	}
	c := Classification{Strong: strings.Contains(first, "METRICS")}
	for _, row := range t.RawRows {
		if col >= len(row) || row[col] == "" {
			continue
		}
		v := row[col]
		if _, ok := n.cfg.RFMetricFor(v); ok {
			c.Strong = true
		}
		switch {
		case textnorm.HasAnyPrefix(textnorm.Words(v), metricIndicators...):
			c.MetricHits++
		case n.cfg.IsMarket(v):
			c.MarketHits++
		}
	}
	c.RF = c.Strong || c.MetricHits >= strongMetricCount || c.MetricHits > c.MarketHits
	return c
}

// Reshape expands every metric row into one record per market column. The
// metric label sits in the first column; the remaining headers are
// markets. Blank, END and N/A market headers are skipped, as are value
// cells that are blank, END or N/A.
func (n *Normalizer) Reshape(t *models.ExtractedTable) models.Table {
	var fields []string
	for _, f := range models.CanonicalColumns {
		switch f {
		case models.FieldSourceFile, models.FieldSourceSheet, models.FieldSourceType:
			continue
		}
		fields = append(fields, f)
	}
	cols := make([]models.Column, len(fields))
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		cols[i] = models.Column{Key: models.CanonicalKey(f, -1), Confidence: 1}
		index[f] = i
	}

	out := models.Table{Columns: cols}
	for _, raw := range t.RawRows {
		if len(raw) == 0 {
			continue
		}
		metric, ok := n.cfg.RFMetricFor(raw[0])
		if !ok {
			continue
		}
		for c := 1; c < len(t.RawHeaders) && c < len(raw); c++ {
			market := t.RawHeaders[c]
			if skipMarket(n.cfg, market) || skipCell(n.cfg, raw[c]) {
				continue
			}
			row := make([]models.Value, len(fields))
			for i, f := range fields {
				if models.IsNumericField(f) {
					row[i] = models.Null()
				} else {
					row[i] = models.Text("N/A")
				}
			}
			row[index[models.FieldMarket]] = models.Text(market)
			row[index[models.FieldPlatform]] = models.Text(raw[0])
			objective := metric.Objective
			if objective == "" {
				objective = "N/A"
			}
			row[index[models.FieldObjectives]] = models.Text(objective)
			if i, ok := index[metric.Field]; ok {
				row[i] = metricValue(raw[c])
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func skipMarket(cfg *config.Config, header string) bool {
	f := textnorm.Fold(header)
	return f == "" || f == "N/A" || f == "NA" || cfg.IsEndMarker(header)
}

// skipCell reports a value cell with no delivery behind it: blank, END or
// the upper-case N/A used for markets that did not run.
func skipCell(cfg *config.Config, cell string) bool {
	v := strings.TrimSpace(cell)
	return v == "" || v == "N/A" || cfg.IsEndMarker(v)
}

// metricValue reads an R&F cell. Lower-case "n/a" is a delivered zero.
func metricValue(s string) models.Value {
	if strings.TrimSpace(s) == "n/a" {
		return models.Number(0)
	}
	if v, _, ok := parser.ParseNumber(s); ok {
		return models.Number(v)
	}
	return models.Null()
}
