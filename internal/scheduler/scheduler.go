package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

// Job surfaces the scheduler drives, satisfied by the services package.
type syncRunner interface {
	SyncAll(ctx context.Context) (*services.SyncResult, error)
}

type campaignOptimizer interface {
	RunOptimization(ctx context.Context) ([]*models.CampaignAction, error)
}

type keywordOptimizer interface {
	RunOptimization(ctx context.Context) (*models.KeywordOptimizationResult, error)
}

type budgetTracker interface {
	CheckBudget() (*models.BudgetStatus, error)
	CanSpendMore() (bool, error)
	RedistributeBudget() ([]*models.CampaignAction, error)
}

type protectionGuard interface {
	RunProtectionCheck(ctx context.Context) error
}

// Intervals configures how often each job fires
type Intervals struct {
	Sync           time.Duration
	Campaign       time.Duration
	Keyword        time.Duration
	Budget         time.Duration
	Redistribution time.Duration
	Protection     time.Duration
}

// DefaultIntervals returns the production schedule
func DefaultIntervals() Intervals {
	return Intervals{
		Sync:           1 * time.Hour,
		Campaign:       1 * time.Hour,
		Keyword:        2 * time.Hour,
		Budget:         24 * time.Hour,
		Redistribution: 24 * time.Hour,
		Protection:     1 * time.Hour,
	}
}

// Scheduler fires the optimization, sync, budget and protection jobs on
// their own fixed intervals. Each job kind runs one trigger at a time;
// overlapping optimization triggers are skipped by the shared run guard.
type Scheduler struct {
	sync         syncRunner
	optimization campaignOptimizer
	keyword      keywordOptimizer
	budget       budgetTracker
	protection   protectionGuard
	intervals    Intervals

	stopChan chan bool
}

func NewScheduler(
	sync syncRunner,
	optimization campaignOptimizer,
	keyword keywordOptimizer,
	budget budgetTracker,
	protection protectionGuard,
	intervals Intervals) *Scheduler {
	return &Scheduler{
		sync:         sync,
		optimization: optimization,
		keyword:      keyword,
		budget:       budget,
		protection:   protection,
		intervals:    intervals,
		stopChan:     make(chan bool),
	}
}

// Start starts all schedule loops
func (s *Scheduler) Start() {
	go s.run()
	logrus.Info("Scheduler started")
}

// Stop stops all schedule loops
func (s *Scheduler) Stop() {
	s.stopChan <- true
	logrus.Info("Scheduler stopped")
}

func (s *Scheduler) run() {
	syncTicker := time.NewTicker(s.intervals.Sync)
	campaignTicker := time.NewTicker(s.intervals.Campaign)
	keywordTicker := time.NewTicker(s.intervals.Keyword)
	budgetTicker := time.NewTicker(s.intervals.Budget)
	redistributionTicker := time.NewTicker(s.intervals.Redistribution)
	protectionTicker := time.NewTicker(s.intervals.Protection)
	defer syncTicker.Stop()
	defer campaignTicker.Stop()
	defer keywordTicker.Stop()
	defer budgetTicker.Stop()
	defer redistributionTicker.Stop()
	defer protectionTicker.Stop()

	// Prime local state before the first optimization tick
	s.runSync()

	for {
		select {
		case <-syncTicker.C:
			s.runSync()
		case <-campaignTicker.C:
			s.runCampaignOptimization()
		case <-keywordTicker.C:
			s.runKeywordOptimization()
		case <-budgetTicker.C:
			s.runBudgetCheck()
		case <-redistributionTicker.C:
			s.runRedistribution()
		case <-protectionTicker.C:
			s.runProtection()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) runSync() {
	if _, err := s.sync.SyncAll(context.Background()); err != nil {
		logrus.Errorf("Scheduled sync failed: %v", err)
	}
}

func (s *Scheduler) runCampaignOptimization() {
	actions, err := s.optimization.RunOptimization(context.Background())
	if err != nil {
		logrus.Errorf("Scheduled campaign optimization failed: %v", err)
		return
	}
	logrus.Infof("Scheduled campaign optimization: %d actions", len(actions))
}

func (s *Scheduler) runKeywordOptimization() {
	if _, err := s.keyword.RunOptimization(context.Background()); err != nil {
		logrus.Errorf("Scheduled keyword optimization failed: %v", err)
	}
}

func (s *Scheduler) runBudgetCheck() {
	if _, err := s.budget.CheckBudget(); err != nil {
		logrus.Errorf("Scheduled budget check failed: %v", err)
	}
}

func (s *Scheduler) runRedistribution() {
	can, err := s.budget.CanSpendMore()
	if err != nil {
		logrus.Errorf("Scheduled redistribution skipped: %v", err)
		return
	}
	if !can {
		logrus.Warn("Scheduled redistribution skipped: monthly budget exhausted")
		return
	}
	if _, err := s.budget.RedistributeBudget(); err != nil {
		logrus.Errorf("Scheduled redistribution failed: %v", err)
	}
}

func (s *Scheduler) runProtection() {
	if err := s.protection.RunProtectionCheck(context.Background()); err != nil {
		logrus.Errorf("Scheduled protection check failed: %v", err)
	}
}
