package models

// Source bookkeeping fields.
const (
	FieldSourceFile  = "Source_File"
	FieldSourceSheet = "Source_Sheet"
	FieldSourceType  = "Source_Type"
)

// Canonical media fields referenced by the pipeline.
const (
	FieldMarket         = "MARKET"
	FieldBrand          = "BRAND"
	FieldCampaign       = "CAMPAIGN"
	FieldPlatform       = "PLATFORM"
	FieldObjectives     = "CEJ_OBJECTIVES"
	FieldBudget         = "BUDGET_LOCAL"
	FieldImpressions    = "IMPRESSIONS"
	FieldClicks         = "CLICKS_ACTIONS"
	FieldVideoViews     = "VIDEO_VIEWS"
	FieldFrequency      = "FREQUENCY"
	FieldReach          = "UNIQUES_REACH"
	FieldPercentUniques = "PERCENT_UNIQUES"
	FieldCPM            = "CPM_LOCAL"
	FieldCPC            = "CPC_LOCAL"
	FieldCPV            = "CPV_LOCAL"
	FieldCTR            = "CTR_PERCENT"
	FieldVTR            = "VTR_PERCENT"
	FieldPlatformFee    = "PLATFORM_FEE_LOCAL"
	FieldPlatformBudget = "PLATFORM_BUDGET_LOCAL"
	FieldTASize         = "TA_SIZE"
	FieldWeeks          = "WEEKS"
)

// OutputColumns is the canonical output column order.
var OutputColumns = []string{
	FieldSourceFile, FieldSourceSheet,
	FieldMarket, FieldBrand, FieldCampaign, FieldPlatform, FieldObjectives,
	"FORMAT_TYPE", "PLACEMENT", "AD_UNIT_TYPE", "DEVICE", "TARGET_AUDIENCE", "BUYING_MODEL",
	"START_DATE", "END_DATE", FieldWeeks, "LOCAL_CURRENCY",
	FieldBudget, FieldImpressions, FieldClicks, FieldVideoViews,
	FieldFrequency, FieldReach, FieldPercentUniques,
	FieldCPM, FieldCPC, FieldCPV, FieldCTR, FieldVTR,
	FieldPlatformFee, FieldPlatformBudget, FieldTASize,
	"MEDIA_KPIS", "COMMENTS", "CREATIVE_NAME",
}

// CanonicalColumns is OutputColumns plus Source_Type; every emitted record
// carries all of them.
var CanonicalColumns = append(append([]string(nil), OutputColumns...), FieldSourceType)

// NumericFields are coerced to numbers before output.
var NumericFields = []string{
	FieldBudget, FieldImpressions, FieldClicks, FieldVideoViews,
	FieldFrequency, FieldReach, FieldPercentUniques,
	FieldCPM, FieldCPC, FieldCPV, FieldCTR, FieldVTR,
	FieldPlatformFee, FieldPlatformBudget, FieldTASize, FieldWeeks,
}

// CountFields hold whole non-negative counts.
var CountFields = []string{
	FieldImpressions, FieldClicks, FieldVideoViews, FieldReach, FieldTASize,
}

// PercentFields hold percentages.
var PercentFields = []string{FieldPercentUniques, FieldCTR, FieldVTR}

var (
	numericSet = toSet(NumericFields)
	countSet   = toSet(CountFields)
	percentSet = toSet(PercentFields)
	schemaSet  = toSet(CanonicalColumns)
)

// IsNumericField reports whether name is coerced to a number.
func IsNumericField(name string) bool { return numericSet[name] }

// IsCountField reports whether name is a whole-number count.
func IsCountField(name string) bool { return countSet[name] }

// IsPercentField reports whether name holds a percentage.
func IsPercentField(name string) bool { return percentSet[name] }

// IsCanonicalField reports whether name belongs to the canonical schema.
func IsCanonicalField(name string) bool { return schemaSet[name] }

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
