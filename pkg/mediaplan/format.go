package mediaplan

import (
	"path/filepath"
	"strings"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

// DetectFormat infers planned/delivered from words of the file name.
// Delivered keywords are checked first: "Plan vs Actuals" is a report.
func DetectFormat(cfg *config.Config, fileName string) models.FileFormat {
	base := filepath.Base(fileName)
	words := textnorm.Words(strings.TrimSuffix(base, filepath.Ext(base)))
	if containsAny(words, cfg.FormatKeywords.Delivered) {
		return models.FormatDelivered
	}
	if containsAny(words, cfg.FormatKeywords.Planned) {
		return models.FormatPlanned
	}
	return models.FormatUnknown
}

func containsAny(words, keywords []string) bool {
	for _, kw := range keywords {
		if textnorm.ContainsPhrase(words, textnorm.Words(kw)) {
			return true
		}
	}
	return false
}

// sourceTypeFor tags rows of a table by file format and reshape outcome.
func sourceTypeFor(format models.FileFormat, reshaped bool) models.SourceType {
	switch format {
	case models.FormatPlanned:
		return models.SourcePlanned
	case models.FormatDelivered:
		if reshaped {
			return models.SourceDeliveredRF
		}
		return models.SourceDeliveredMedia
	default:
		return models.SourceOther
	}
}
