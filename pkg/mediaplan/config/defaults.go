package config

func defaults() *Config {
	return &Config{
		Markers: Markers{
			Start: []string{"START", "START HERE", "BEGIN", "DEBUT", "INICIO", "INIZIO", "ANFANG"},
			End:   []string{"END", "END HERE", "FIN", "FINE", "ENDE"},
		},
		IgnoreColumns: map[string][]string{},
		Platforms: map[string][]string{
			"DV360": {
				"DV 360", "DV-360", "Display & Video 360", "Display and Video 360",
				"Google DV360", "YouTube", "YT", "Google",
			},
			"META": {
				"Facebook", "FB", "Instagram", "IG", "FB & IG", "FB/IG", "Meta Ads",
			},
			"TIKTOK": {
				"Tik Tok", "TT", "TikTok Ads",
			},
		},
		Columns:   defaultColumns(),
		Markets:   defaultMarkets(),
		RFMetrics: defaultRFMetrics(),
		RFMarketThreshold: map[string]float64{
			"DV360":  DefaultRFMarketThreshold,
			"META":   DefaultRFMarketThreshold,
			"TIKTOK": DefaultRFMarketThreshold,
		},
		FormatKeywords: FormatKeywords{
			Planned:   []string{"PLANNED", "PLAN", "MEDIA PLAN", "MP", "PROPOSAL", "FLOWCHART"},
			Delivered: []string{"DELIVERED", "DELIVERY", "ACTUAL", "ACTUALS", "POST CAMPAIGN", "PCA", "REPORT", "RESULTS"},
		},
	}
}

func defaultColumns() []ColumnAlternatives {
	return []ColumnAlternatives{
		{Name: "MARKET", Alternatives: []string{"MARKETS", "MARKET NAME", "COUNTRY", "GEO", "REGION"}},
		{Name: "BRAND", Alternatives: []string{"BRAND NAME", "ADVERTISER", "PRODUCT"}},
		{Name: "CAMPAIGN", Alternatives: []string{"CAMPAIGN NAME", "ACTIVITY", "FLIGHT NAME"}},
		{Name: "PLATFORM", Alternatives: []string{"CHANNEL", "MEDIA", "MEDIA OWNER", "PUBLISHER", "SITE"}},
		{Name: "CEJ_OBJECTIVES", Alternatives: []string{"CEJ OBJECTIVE", "OBJECTIVE", "OBJECTIVES", "CAMPAIGN OBJECTIVE", "FUNNEL STAGE"}},
		{Name: "FORMAT_TYPE", Alternatives: []string{"FORMAT", "AD FORMAT", "CREATIVE FORMAT"}},
		{Name: "PLACEMENT", Alternatives: []string{"PLACEMENTS", "POSITION", "INVENTORY"}},
		{Name: "AD_UNIT_TYPE", Alternatives: []string{"AD UNIT", "UNIT TYPE", "AD TYPE"}},
		{Name: "DEVICE", Alternatives: []string{"DEVICES", "DEVICE TYPE"}},
		{Name: "TARGET_AUDIENCE", Alternatives: []string{"AUDIENCE", "TARGETING", "TA"}},
		{Name: "BUYING_MODEL", Alternatives: []string{"BUY TYPE", "BUYING TYPE", "PRICING MODEL", "COST MODEL"}},
		{Name: "START_DATE", Alternatives: []string{"FLIGHT START", "LIVE DATE", "FROM"}},
		{Name: "END_DATE", Alternatives: []string{"FLIGHT END", "TO"}},
		{Name: "WEEKS", Alternatives: []string{"NO OF WEEKS", "NUMBER OF WEEKS", "# WEEKS", "DURATION (WEEKS)"}},
		{Name: "LOCAL_CURRENCY", Alternatives: []string{"CURRENCY", "CCY"}},
		{Name: "BUDGET_LOCAL", Alternatives: []string{"BUDGET", "BUDGET (LOCAL)", "MEDIA BUDGET", "NET BUDGET", "SPEND", "NET SPEND", "MEDIA COST", "COST", "INVESTMENT"}},
		{Name: "IMPRESSIONS", Alternatives: []string{"IMPS", "IMPRESSION", "EST. IMPRESSIONS", "ESTIMATED IMPRESSIONS"}},
		{Name: "CLICKS_ACTIONS", Alternatives: []string{"CLICKS", "ACTIONS", "CLICKS/ACTIONS", "LINK CLICKS"}},
		{Name: "VIDEO_VIEWS", Alternatives: []string{"VIEWS", "COMPLETED VIEWS", "THRUPLAYS", "VIDEO COMPLETIONS"}},
		{Name: "FREQUENCY", Alternatives: []string{"FREQ", "AVG FREQUENCY", "AVERAGE FREQUENCY"}},
		{Name: "UNIQUES_REACH", Alternatives: []string{"REACH", "UNIQUES", "UNIQUE REACH", "UNIQUE USERS"}},
		{Name: "PERCENT_UNIQUES", Alternatives: []string{"% UNIQUES", "% REACH", "REACH %", "REACH (%)", "% UNIQUE REACH"}},
		{Name: "CPM_LOCAL", Alternatives: []string{"CPM", "COST PER MILLE", "EST. CPM"}},
		{Name: "CPC_LOCAL", Alternatives: []string{"CPC", "COST PER CLICK"}},
		{Name: "CPV_LOCAL", Alternatives: []string{"CPV", "CPCV", "COST PER VIEW"}},
		{Name: "CTR_PERCENT", Alternatives: []string{"CTR", "CTR %", "CTR (%)", "CLICK THROUGH RATE"}},
		{Name: "VTR_PERCENT", Alternatives: []string{"VTR", "VTR %", "VTR (%)", "VIEW THROUGH RATE", "COMPLETION RATE"}},
		{Name: "PLATFORM_FEE_LOCAL", Alternatives: []string{"PLATFORM FEE", "TECH FEE", "FEE"}},
		{Name: "PLATFORM_BUDGET_LOCAL", Alternatives: []string{"PLATFORM BUDGET", "GROSS BUDGET", "TOTAL BUDGET"}},
		{Name: "TA_SIZE", Alternatives: []string{"AUDIENCE SIZE", "TARGET AUDIENCE SIZE", "UNIVERSE"}},
		{Name: "MEDIA_KPIS", Alternatives: []string{"KPI", "KPIS", "MEDIA KPI", "PRIMARY KPI"}},
		{Name: "COMMENTS", Alternatives: []string{"COMMENT", "NOTES", "REMARKS"}},
		{Name: "CREATIVE_NAME", Alternatives: []string{"CREATIVE", "CREATIVE NAMES", "ASSET NAME"}},
	}
}

func defaultMarkets() []string {
	return []string{
		"UAE", "United Arab Emirates",
		"KSA", "Saudi Arabia",
		"QAT", "Qatar",
		"BAH", "Bahrain",
		"KUW", "Kuwait",
		"OMN", "Oman",
		"LEB", "Lebanon",
		"JOR", "Jordan",
		"EGY", "Egypt",
		"IRQ", "Iraq",
		"MOR", "Morocco",
		"PAK", "Pakistan",
	}
}

func defaultRFMetrics() []RFMetric {
	return []RFMetric{
		{Label: "Campaign Reach (Absl)", Field: "UNIQUES_REACH", Objective: "N/A"},
		{Label: "Campaign Reach", Field: "UNIQUES_REACH", Objective: "N/A"},
		{Label: "Campaign Reach (%)", Field: "PERCENT_UNIQUES", Objective: "N/A"},
		{Label: "Campaign Freq.", Field: "FREQUENCY", Objective: "N/A"},
		{Label: "Campaign Frequency", Field: "FREQUENCY", Objective: "N/A"},
		{Label: "Awareness Reach", Field: "UNIQUES_REACH", Objective: "Awareness"},
		{Label: "Awareness Freq.", Field: "FREQUENCY", Objective: "Awareness"},
		{Label: "Consideration Reach", Field: "UNIQUES_REACH", Objective: "Consideration"},
		{Label: "Consideration Freq.", Field: "FREQUENCY", Objective: "Consideration"},
		{Label: "Purchase Reach", Field: "UNIQUES_REACH", Objective: "Purchase"},
		{Label: "Purchase Freq.", Field: "FREQUENCY", Objective: "Purchase"},
	}
}
