package mediaplan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

func TestDetectFormat(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		file string
		want models.FileFormat
	}{
		{"Q1_Media_Plan.xlsx", models.FormatPlanned},
		{"/data/in/2024 Proposal v2.xlsx", models.FormatPlanned},
		{"Campaign_Delivery_Report.xlsx", models.FormatDelivered},
		{"Plan vs Actuals.xlsx", models.FormatDelivered},
		{"planet.xlsx", models.FormatUnknown},
		{"workbook.xlsx", models.FormatUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(cfg, tt.file), tt.file)
	}
}

func TestSourceTypeFor(t *testing.T) {
	assert.Equal(t, models.SourcePlanned, sourceTypeFor(models.FormatPlanned, true))
	assert.Equal(t, models.SourceDeliveredRF, sourceTypeFor(models.FormatDelivered, true))
	assert.Equal(t, models.SourceDeliveredMedia, sourceTypeFor(models.FormatDelivered, false))
	assert.Equal(t, models.SourceOther, sourceTypeFor(models.FormatUnknown, false))
}
