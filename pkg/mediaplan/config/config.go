// Package config holds the canonical vocabulary of the normalizer: boundary
// markers, sheet aliases, column alternatives, market names and reach &
// frequency metric maps. A Config is loaded once per run and is read-only
// afterwards.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

// Markers lists textual variants of the boundary sentinels.
type Markers struct {
	Start []string `yaml:"START" json:"START"`
	End   []string `yaml:"END" json:"END"`
}

// ColumnAlternatives maps a canonical field to accepted header spellings.
type ColumnAlternatives struct {
	Name         string   `yaml:"name"`
	Alternatives []string `yaml:"alternatives"`
}

// RFMetric describes one reach & frequency row label.
type RFMetric struct {
	// Label is the row label as typed in delivered reports.
	Label string `yaml:"label"`
	// Field is the canonical field receiving the value.
	Field string `yaml:"field"`
	// Objective is written to CEJ_OBJECTIVES.
	Objective string `yaml:"objective"`
}

// FormatKeywords drive file-format detection from file names.
type FormatKeywords struct {
	Planned   []string `yaml:"planned"`
	Delivered []string `yaml:"delivered"`
}

// Config is the canonical configuration.
type Config struct {
	Markers Markers `yaml:"markers"`
	// IgnoreColumns maps a sheet name or platform to column letters ("M")
	// or spans ("L:N") that never yield markers.
	IgnoreColumns map[string][]string `yaml:"ignore_columns"`
	// Platforms maps a normalized platform to its sheet-name aliases.
	Platforms map[string][]string `yaml:"platforms"`
	// Columns is the ordered canonical column table.
	Columns []ColumnAlternatives `yaml:"columns"`
	// Markets lists market names and codes.
	Markets []string `yaml:"markets"`
	// RFMetrics lists reach & frequency row labels.
	RFMetrics []RFMetric `yaml:"rf_metrics"`
	// RFMarketThreshold is the per-platform fraction of market-named
	// columns that marks a planned table as R&F.
	RFMarketThreshold map[string]float64 `yaml:"rf_market_threshold"`
	// FormatKeywords drive planned/delivered detection.
	FormatKeywords FormatKeywords `yaml:"format_keywords"`
	// Regions maps a sheet name or platform to A1 ranges ("B7:F20") that
	// replace region detection for that sheet. The first row of each range
	// is its header.
	Regions map[string][]string `yaml:"regions"`

	idx *index
}

type index struct {
	start    map[string]bool
	end      map[string]bool
	aliases  map[string]string
	ignore   map[string]map[int]bool
	markets  map[string]bool
	rfLabels map[string]RFMetric
	regions  map[string][]string
}

// DefaultRFMarketThreshold applies when no per-platform value is set.
const DefaultRFMarketThreshold = 0.5

// Load reads a YAML (or JSON) file over the built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "validate config %s", path)
	}
	if err := cfg.compile(); err != nil {
		return nil, eris.Wrapf(err, "compile config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default with a warning when the
// file is absent or invalid. The load error comes back with the defaults so
// callers can report it. An empty path selects the defaults silently.
func LoadOrDefault(path string, logger *zap.Logger) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		if logger != nil {
			logger.Warn("config: falling back to built-in defaults",
				zap.String("path", path), zap.Error(err))
		}
		return Default(), err
	}
	return cfg, nil
}

// Default returns the compiled built-in configuration.
func Default() *Config {
	cfg := defaults()
	if err := cfg.compile(); err != nil {
		// built-in tables are static; a failure here is a programming error
		panic(err)
	}
	return cfg
}

// Validate checks that required tables are present.
func (c *Config) Validate() error {
	if len(c.Markers.Start) == 0 || len(c.Markers.End) == 0 {
		return eris.New("markers.START and markers.END must be non-empty")
	}
	if len(c.Platforms) == 0 {
		return eris.New("platforms must be non-empty")
	}
	if len(c.Columns) == 0 {
		return eris.New("columns must be non-empty")
	}
	for i, col := range c.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return eris.Errorf("columns[%d]: name is required", i)
		}
	}
	for i, m := range c.RFMetrics {
		if m.Label == "" || m.Field == "" {
			return eris.Errorf("rf_metrics[%d]: label and field are required", i)
		}
	}
	for sheet, refs := range c.Regions {
		if strings.TrimSpace(sheet) == "" || len(refs) == 0 {
			return eris.Errorf("regions[%q]: sheet and at least one range are required", sheet)
		}
	}
	for p, th := range c.RFMarketThreshold {
		if th <= 0 || th > 1 {
			return eris.Errorf("rf_market_threshold[%s] must be in (0, 1]", p)
		}
	}
	return nil
}

func (c *Config) compile() error {
	idx := &index{
		start:    foldSet(c.Markers.Start),
		end:      foldSet(c.Markers.End),
		aliases:  make(map[string]string),
		ignore:   make(map[string]map[int]bool),
		markets:  make(map[string]bool),
		rfLabels: make(map[string]RFMetric),
		regions:  make(map[string][]string),
	}
	for platform, aliases := range c.Platforms {
		canonical := textnorm.Fold(platform)
		idx.aliases[canonical] = canonical
		for _, a := range aliases {
			idx.aliases[textnorm.Fold(a)] = canonical
		}
	}
	for sheet, specs := range c.IgnoreColumns {
		cols := make(map[int]bool)
		for _, spec := range specs {
			first, last, err := parseColumnSpan(spec)
			if err != nil {
				return eris.Wrapf(err, "ignore_columns[%s]", sheet)
			}
			for col := first; col <= last; col++ {
				cols[col] = true
			}
		}
		idx.ignore[textnorm.Fold(sheet)] = cols
	}
	for _, m := range c.Markets {
		idx.markets[textnorm.Key(m)] = true
	}
	for _, m := range c.RFMetrics {
		idx.rfLabels[textnorm.Key(m.Label)] = m
	}
	for sheet, refs := range c.Regions {
		idx.regions[textnorm.Fold(sheet)] = refs
	}
	c.idx = idx
	return nil
}

// parseColumnSpan turns "M" or "L:N" into 0-based inclusive column bounds.
func parseColumnSpan(spec string) (int, int, error) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(spec), "$", ""), ":")
	if len(parts) > 2 {
		return 0, 0, eris.Errorf("invalid column span %q", spec)
	}
	first, err := excelize.ColumnNameToNumber(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, eris.Wrapf(err, "invalid column %q", parts[0])
	}
	last := first
	if len(parts) == 2 {
		if last, err = excelize.ColumnNameToNumber(strings.TrimSpace(parts[1])); err != nil {
			return 0, 0, eris.Wrapf(err, "invalid column %q", parts[1])
		}
	}
	if last < first {
		first, last = last, first
	}
	return first - 1, last - 1, nil
}

func foldSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[textnorm.Fold(v)] = true
	}
	return set
}

// IsStartMarker reports whether a cell text is a START variant. The match
// is exact after case and whitespace folding, never a substring.
func (c *Config) IsStartMarker(cell string) bool {
	return c.idx.start[textnorm.Fold(cell)]
}

// IsEndMarker reports whether a cell text is an END variant.
func (c *Config) IsEndMarker(cell string) bool {
	return c.idx.end[textnorm.Fold(cell)]
}

// ContainsEndMarker reports whether any word sequence of cell equals an END
// variant, for first-cell checks such as "END OF TABLE".
func (c *Config) ContainsEndMarker(cell string) bool {
	if c.IsEndMarker(cell) {
		return true
	}
	words := textnorm.Words(cell)
	for variant := range c.idx.end {
		if textnorm.ContainsPhrase(words, strings.Fields(variant)) {
			return true
		}
	}
	return false
}

// NormalizePlatform maps a sheet name to its platform, or "" when the
// sheet matches no alias.
func (c *Config) NormalizePlatform(sheetName string) string {
	return c.idx.aliases[textnorm.Fold(sheetName)]
}

// IgnoredColumns returns the marker-ignore set for a sheet, merging rules
// keyed by the raw sheet name and by its platform.
func (c *Config) IgnoredColumns(sheetName, platform string) map[int]bool {
	out := make(map[int]bool)
	for _, key := range []string{textnorm.Fold(sheetName), textnorm.Fold(platform)} {
		for col := range c.idx.ignore[key] {
			out[col] = true
		}
	}
	return out
}

// IsMarket reports whether s names a known market.
func (c *Config) IsMarket(s string) bool {
	return c.idx.markets[textnorm.Key(s)]
}

// RFMetricFor looks up a reach & frequency row label.
func (c *Config) RFMetricFor(label string) (RFMetric, bool) {
	m, ok := c.idx.rfLabels[textnorm.Key(label)]
	return m, ok
}

// RFThreshold returns the market-column fraction for a platform.
func (c *Config) RFThreshold(platform string) float64 {
	for p, th := range c.RFMarketThreshold {
		if textnorm.Fold(p) == textnorm.Fold(platform) {
			return th
		}
	}
	return DefaultRFMarketThreshold
}

// RegionRefs returns the configured A1 ranges for a sheet. Rules keyed by
// the raw sheet name win over rules keyed by its platform.
func (c *Config) RegionRefs(sheetName, platform string) []string {
	if refs, ok := c.idx.regions[textnorm.Fold(sheetName)]; ok {
		return refs
	}
	return c.idx.regions[textnorm.Fold(platform)]
}
