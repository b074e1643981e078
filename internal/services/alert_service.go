package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

// alertPublisher pushes raised alerts to the message queue for downstream
// notifiers. Nil-able: persistence still happens when no broker is available.
type alertPublisher interface {
	PublishAlert(alert *models.Alert) error
}

type AlertService struct {
	alertRepo alertStore
	publisher alertPublisher
}

func NewAlertService(alertRepo alertStore, publisher alertPublisher) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		publisher: publisher,
	}
}

// AlertInput carries one event to be raised
type AlertInput struct {
	Type         string
	Severity     string
	Title        string
	Message      string
	CampaignID   string
	CampaignName string
	Data         map[string]interface{}
}

// Send persists the alert and publishes it to the alert queue. A publish
// failure is logged but does not fail the alert itself.
func (s *AlertService) Send(input *AlertInput) error {
	alert := &models.Alert{
		Type:         input.Type,
		Severity:     input.Severity,
		Title:        input.Title,
		Message:      input.Message,
		CampaignID:   input.CampaignID,
		CampaignName: input.CampaignName,
		CreatedAt:    time.Now(),
	}

	if input.Data != nil {
		payload, err := json.Marshal(input.Data)
		if err == nil {
			alert.Data = string(payload)
		}
	}

	if err := s.alertRepo.Create(alert); err != nil {
		return fmt.Errorf("failed to persist alert: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAlert(alert); err != nil {
			logrus.Warnf("Failed to publish alert to queue: %v", err)
		}
	}

	logrus.Infof("Alert raised [%s/%s]: %s", input.Severity, input.Type, input.Title)
	return nil
}

// GetRecent returns the most recent alerts, newest first
func (s *AlertService) GetRecent(limit int) ([]*models.Alert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.alertRepo.GetRecent(limit)
}
