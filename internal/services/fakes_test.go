package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

type fakeCampaignStore struct {
	campaigns []*models.Campaign

	statusUpdates map[string]string
	budgetUpdates map[string]float64
	touched       []string
	upserts       []*models.Campaign

	failBudgetUpdate map[string]bool
}

func newFakeCampaignStore(campaigns ...*models.Campaign) *fakeCampaignStore {
	return &fakeCampaignStore{
		campaigns:        campaigns,
		statusUpdates:    map[string]string{},
		budgetUpdates:    map[string]float64{},
		failBudgetUpdate: map[string]bool{},
	}
}

func (f *fakeCampaignStore) GetByStatus(statuses ...string) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range f.campaigns {
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCampaignStore) UpdateStatus(campaignID, status string) error {
	f.statusUpdates[campaignID] = status
	return nil
}

func (f *fakeCampaignStore) UpdateBudget(campaignID string, budget float64) error {
	if f.failBudgetUpdate[campaignID] {
		return fmt.Errorf("update failed for %s", campaignID)
	}
	f.budgetUpdates[campaignID] = budget
	return nil
}

func (f *fakeCampaignStore) TouchLastOptimized(campaignID string, at time.Time) error {
	f.touched = append(f.touched, campaignID)
	return nil
}

func (f *fakeCampaignStore) Upsert(campaign *models.Campaign) error {
	f.upserts = append(f.upserts, campaign)
	return nil
}

type fakeKeywordStore struct {
	keywords []*models.Keyword

	created       []*models.Keyword
	updated       []*models.Keyword
	bidUpdates    map[string]float64
	statusUpdates map[string]string
}

func newFakeKeywordStore(keywords ...*models.Keyword) *fakeKeywordStore {
	return &fakeKeywordStore{
		keywords:      keywords,
		bidUpdates:    map[string]float64{},
		statusUpdates: map[string]string{},
	}
}

func (f *fakeKeywordStore) Create(keyword *models.Keyword) error {
	f.created = append(f.created, keyword)
	return nil
}

func (f *fakeKeywordStore) GetByKeywordID(keywordID string) (*models.Keyword, error) {
	for _, k := range f.keywords {
		if k.KeywordID == keywordID {
			return k, nil
		}
	}
	return nil, nil
}

func (f *fakeKeywordStore) GetByCampaignAndText(campaignID, text string) (*models.Keyword, error) {
	for _, k := range append(f.keywords, f.created...) {
		if k.CampaignID == campaignID && k.KeywordText == text {
			return k, nil
		}
	}
	return nil, nil
}

func (f *fakeKeywordStore) GetEnabledByCampaign(campaignID string) ([]*models.Keyword, error) {
	var out []*models.Keyword
	for _, k := range f.keywords {
		if k.CampaignID == campaignID && k.Status == models.KeywordStatusEnabled {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeywordStore) GetEnabledWithBidAbove(ceiling float64) ([]*models.Keyword, error) {
	var out []*models.Keyword
	for _, k := range f.keywords {
		if k.Status == models.KeywordStatusEnabled && k.Bid > ceiling {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeywordStore) Update(keyword *models.Keyword) error {
	f.updated = append(f.updated, keyword)
	return nil
}

func (f *fakeKeywordStore) UpdateBid(id string, bid float64) error {
	f.bidUpdates[id] = bid
	return nil
}

func (f *fakeKeywordStore) UpdateStatus(id, status string) error {
	f.statusUpdates[id] = status
	return nil
}

type fakeMetricStore struct {
	metrics []*models.PerformanceMetric
}

func newFakeMetricStore(metrics ...*models.PerformanceMetric) *fakeMetricStore {
	return &fakeMetricStore{metrics: metrics}
}

func (f *fakeMetricStore) Upsert(metric *models.PerformanceMetric) error {
	f.metrics = append(f.metrics, metric)
	return nil
}

func (f *fakeMetricStore) FindBetween(campaignID string, start, end time.Time) ([]*models.PerformanceMetric, error) {
	var out []*models.PerformanceMetric
	for _, m := range f.metrics {
		if m.CampaignID == campaignID && !m.Date.Before(start) && !m.Date.After(end) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMetricStore) SumSpendBetween(start, end time.Time) (float64, error) {
	var sum float64
	for _, m := range f.metrics {
		if !m.Date.Before(start) && !m.Date.After(end) {
			sum += m.Spend
		}
	}
	return sum, nil
}

func (f *fakeMetricStore) SumCampaignSpendBetween(campaignID string, start, end time.Time) (float64, error) {
	var sum float64
	for _, m := range f.metrics {
		if m.CampaignID == campaignID && !m.Date.Before(start) && !m.Date.After(end) {
			sum += m.Spend
		}
	}
	return sum, nil
}

type fakeBudgetStore struct {
	records []*models.BudgetRecord
	updates int
}

func newFakeBudgetStore(records ...*models.BudgetRecord) *fakeBudgetStore {
	return &fakeBudgetStore{records: records}
}

func (f *fakeBudgetStore) GetByMonth(month time.Time) (*models.BudgetRecord, error) {
	for _, r := range f.records {
		if r.Month.Equal(month) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeBudgetStore) Create(record *models.BudgetRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeBudgetStore) Update(record *models.BudgetRecord) error {
	f.updates++
	return nil
}

func (f *fakeBudgetStore) GetRecent(months int) ([]*models.BudgetRecord, error) {
	if len(f.records) > months {
		return f.records[:months], nil
	}
	return f.records, nil
}

type fakeActionStore struct {
	actions []*models.OptimizationAction
	runs    []*models.OptimizationRun
}

func newFakeActionStore() *fakeActionStore {
	return &fakeActionStore{}
}

func (f *fakeActionStore) Create(action *models.OptimizationAction) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeActionStore) GetRecent(limit int) ([]*models.OptimizationAction, error) {
	if len(f.actions) > limit {
		return f.actions[:limit], nil
	}
	return f.actions, nil
}

func (f *fakeActionStore) CreateRun(run *models.OptimizationRun) error {
	f.runs = append(f.runs, run)
	return nil
}

type fakeAlertStore struct {
	alerts []*models.Alert
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{}
}

func (f *fakeAlertStore) Create(alert *models.Alert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeAlertStore) GetRecent(limit int) ([]*models.Alert, error) {
	if len(f.alerts) > limit {
		return f.alerts[:limit], nil
	}
	return f.alerts, nil
}

type fakeSpendGate struct {
	can bool
	err error
}

func (f *fakeSpendGate) CanSpendMore() (bool, error) {
	return f.can, f.err
}

type gatewayCall struct {
	method string
	path   string
	body   interface{}
}

// fakeGateway records outbound calls and serves canned JSON responses by path
type fakeGateway struct {
	calls     []gatewayCall
	responses map[string]interface{}
	errors    map[string]error
	campaigns []amazon.CampaignData
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		responses: map[string]interface{}{},
		errors:    map[string]error{},
	}
}

func (f *fakeGateway) serve(method, path string, body, out interface{}) error {
	f.calls = append(f.calls, gatewayCall{method: method, path: path, body: body})
	if err, ok := f.errors[path]; ok {
		return err
	}
	if out == nil {
		return nil
	}
	resp, ok := f.responses[path]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeGateway) Get(ctx context.Context, path string, out interface{}) error {
	return f.serve("GET", path, nil, out)
}

func (f *fakeGateway) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return f.serve("POST", path, body, out)
}

func (f *fakeGateway) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	return f.serve("PUT", path, body, out)
}

func (f *fakeGateway) GetCampaigns(ctx context.Context, stateFilter string) ([]amazon.CampaignData, error) {
	f.calls = append(f.calls, gatewayCall{method: "GET", path: "/sp/campaigns"})
	return f.campaigns, nil
}

func (f *fakeGateway) callsTo(method, path string) []gatewayCall {
	var out []gatewayCall
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			out = append(out, c)
		}
	}
	return out
}
