package amazon

// CampaignData is one campaign as returned by the /sp/campaigns endpoints.
// Only the fields the optimizer reads are mapped.
type CampaignData struct {
	CampaignID  string  `json:"campaignId"`
	Name        string  `json:"name"`
	State       string  `json:"state"`
	DailyBudget float64 `json:"dailyBudget"`
}

// KeywordData is one keyword as returned by the /sp/keywords endpoints
type KeywordData struct {
	KeywordID   string  `json:"keywordId"`
	CampaignID  string  `json:"campaignId"`
	AdGroupID   string  `json:"adGroupId"`
	KeywordText string  `json:"keywordText"`
	MatchType   string  `json:"matchType"`
	State       string  `json:"state"`
	Bid         float64 `json:"bid"`
}

// ReportRow is one row of a search-term or keyword performance report
type ReportRow struct {
	CampaignID               string  `json:"campaignId"`
	AdGroupID                string  `json:"adGroupId"`
	KeywordID                string  `json:"keywordId"`
	KeywordText              string  `json:"keywordText"`
	Query                    string  `json:"query"`
	Impressions              int     `json:"impressions"`
	Clicks                   int     `json:"clicks"`
	Cost                     float64 `json:"cost"`
	Sales14d                 float64 `json:"sales14d"`
	AttributedConversions14d int     `json:"attributedConversions14d"`
	Date                     string  `json:"date"`
}

// CampaignReportRequest filters a trailing daily campaign performance report
type CampaignReportRequest struct {
	CampaignIDFilter []string `json:"campaignIdFilter"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Metrics          []string `json:"metrics"`
	Segment          string   `json:"segment,omitempty"`
}

// SearchTermReportRequest filters a trailing search-term report
type SearchTermReportRequest struct {
	CampaignIDFilter []string `json:"campaignIdFilter"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Metrics          []string `json:"metrics"`
}

// KeywordReportRequest filters a trailing keyword performance report
type KeywordReportRequest struct {
	KeywordIDFilter []string `json:"keywordIdFilter"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Metrics         []string `json:"metrics"`
}

// CampaignUpdate carries the mutable campaign fields pushed back to Amazon
type CampaignUpdate struct {
	State       string   `json:"state,omitempty"`
	DailyBudget *float64 `json:"dailyBudget,omitempty"`
}

// KeywordUpdate carries the mutable keyword fields pushed back to Amazon
type KeywordUpdate struct {
	State string   `json:"state,omitempty"`
	Bid   *float64 `json:"bid,omitempty"`
}

// NegativeKeywordCreate creates one negative keyword under a campaign
type NegativeKeywordCreate struct {
	CampaignID  string `json:"campaignId"`
	AdGroupID   string `json:"adGroupId"`
	KeywordText string `json:"keywordText"`
	MatchType   string `json:"matchType"`
	State       string `json:"state"`
}

// KeywordCreate creates one positive keyword under a campaign
type KeywordCreate struct {
	CampaignID  string  `json:"campaignId"`
	AdGroupID   string  `json:"adGroupId"`
	KeywordText string  `json:"keywordText"`
	MatchType   string  `json:"matchType"`
	State       string  `json:"state"`
	Bid         float64 `json:"bid"`
}
