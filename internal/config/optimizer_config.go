package config

// AcosThresholds holds the ACoS bands driving campaign lifecycle decisions.
// targetMin < targetMax < pauseMin < pauseMax is assumed throughout.
type AcosThresholds struct {
	TargetMin float64
	TargetMax float64
	PauseMin  float64
	PauseMax  float64
}

// GetAcosThresholds returns the configured ACoS thresholds
func GetAcosThresholds() *AcosThresholds {
	return &AcosThresholds{
		TargetMin: getEnvAsFloat("TARGET_ACOS_MIN", 5),
		TargetMax: getEnvAsFloat("TARGET_ACOS_MAX", 15),
		PauseMin:  getEnvAsFloat("PAUSE_ACOS_MIN", 40),
		PauseMax:  getEnvAsFloat("PAUSE_ACOS_MAX", 60),
	}
}

// BudgetConfig contains monthly account budget configuration
type BudgetConfig struct {
	MonthlyMin float64
	MonthlyMax float64
}

// GetBudgetConfig returns the monthly budget limits
func GetBudgetConfig() *BudgetConfig {
	return &BudgetConfig{
		MonthlyMin: getEnvAsFloat("MONTHLY_BUDGET_MIN", 1000),
		MonthlyMax: getEnvAsFloat("MONTHLY_BUDGET_MAX", 2000),
	}
}

// BidLimits bounds every computed keyword bid.
type BidLimits struct {
	Min        float64
	Max        float64
	DefaultCPC float64
}

// GetBidLimits returns keyword bid bounds and the CPC assumed for zero-click keywords
func GetBidLimits() *BidLimits {
	return &BidLimits{
		Min:        getEnvAsFloat("KEYWORD_BID_MIN", 0.15),
		Max:        getEnvAsFloat("KEYWORD_BID_MAX", 5.00),
		DefaultCPC: getEnvAsFloat("KEYWORD_DEFAULT_CPC", 0.50),
	}
}

// ProtectionConfig contains hard spend/bid ceilings for the protection guard
type ProtectionConfig struct {
	MaxDailySpend  float64
	MaxKeywordBid  float64
	SpikeThreshold float64
}

// GetProtectionConfig returns spend protection limits
func GetProtectionConfig() *ProtectionConfig {
	return &ProtectionConfig{
		MaxDailySpend:  getEnvAsFloat("PROTECTION_MAX_DAILY_SPEND", 100),
		MaxKeywordBid:  getEnvAsFloat("PROTECTION_MAX_KEYWORD_BID", 5.00),
		SpikeThreshold: getEnvAsFloat("PROTECTION_SPIKE_THRESHOLD", 2.5),
	}
}
