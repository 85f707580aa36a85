package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"expyra/internal/domain"
	"expyra/internal/relay"
	"expyra/internal/repos"
)

// EventSink is the notification relay as the services see it. Publishing is
// best-effort; a nil sink disables notifications entirely.
type EventSink interface {
	Publish(e relay.Event)
}

// AlertService owns the alert state machine: ACTIVE -> RESOLVED | DISMISSED,
// both terminal. Re-transitioning to the same terminal state is a no-op;
// any other transition out of a terminal state fails.
type AlertService struct {
	Alerts   *repos.AlertRepo
	Products *repos.ProductRepo
	Batches  *repos.BatchRepo
	Sink     EventSink
	Now      func() time.Time
}

func NewAlertService(alerts *repos.AlertRepo, products *repos.ProductRepo, batches *repos.BatchRepo, sink EventSink) *AlertService {
	return &AlertService{Alerts: alerts, Products: products, Batches: batches, Sink: sink, Now: time.Now}
}

type CreateAlertInput struct {
	Type      domain.AlertType
	Title     string
	Message   string
	ProductID *string
	BatchID   *string
}

func (s *AlertService) Create(in CreateAlertInput) (domain.Alert, error) {
	if !in.Type.Valid() {
		return domain.Alert{}, domain.ValidationError{Field: "type", Reason: "must be one of NEAR_EXPIRY, DONATION_READY, EXPIRED, LOW_STOCK"}
	}
	if in.Title == "" {
		return domain.Alert{}, domain.ValidationError{Field: "title", Reason: "is required"}
	}
	if in.Message == "" {
		return domain.Alert{}, domain.ValidationError{Field: "message", Reason: "is required"}
	}
	if in.ProductID != nil {
		if _, err := s.Products.Get(*in.ProductID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Alert{}, domain.ValidationError{Field: "productId", Reason: "unknown product"}
			}
			return domain.Alert{}, err
		}
	}
	if in.BatchID != nil {
		if _, err := s.Batches.Get(*in.BatchID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Alert{}, domain.ValidationError{Field: "batchId", Reason: "unknown batch"}
			}
			return domain.Alert{}, err
		}
	}

	a := domain.Alert{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Status:    domain.StatusActive,
		ProductID: in.ProductID,
		BatchID:   in.BatchID,
		CreatedAt: domain.FormatTime(s.Now()),
	}
	if err := s.Alerts.Insert(a); err != nil {
		return domain.Alert{}, err
	}

	s.publish(relay.Event{Name: relay.EventNewAlert, AlertID: a.ID, Payload: a})
	return a, nil
}

func (s *AlertService) Get(id string) (domain.Alert, error) {
	a, err := s.Alerts.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Alert{}, domain.NotFoundError{Entity: "alert", ID: id}
	}
	return a, err
}

// Transition moves an alert to target. RESOLVED stamps resolvedAt; DISMISSED
// leaves it unset. The state change is committed before the event is
// published, and a lost event never rolls it back.
func (s *AlertService) Transition(id string, target domain.AlertStatus) (domain.Alert, error) {
	if !target.Valid() {
		return domain.Alert{}, domain.ValidationError{Field: "status", Reason: "must be ACTIVE, RESOLVED or DISMISSED"}
	}

	a, err := s.Get(id)
	if err != nil {
		return domain.Alert{}, err
	}

	if a.Status == target {
		// idempotent re-transition, including to the same terminal state
		return a, nil
	}
	if a.Status.Terminal() {
		return domain.Alert{}, domain.InvalidTransitionError{From: a.Status, To: target}
	}
	if target == domain.StatusActive {
		// the only non-terminal state is the initial one; nothing to do
		return a, nil
	}

	now := domain.FormatTime(s.Now())
	a.Status = target
	a.UpdatedAt = &now
	if target == domain.StatusResolved {
		a.ResolvedAt = &now
	}
	if err := s.Alerts.UpdateStatus(a); err != nil {
		return domain.Alert{}, err
	}

	name := relay.EventAlertResolved
	if target == domain.StatusDismissed {
		name = relay.EventAlertDismissed
	}
	s.publish(relay.Event{Name: name, AlertID: a.ID, Payload: a})
	return a, nil
}

func (s *AlertService) Delete(id string) error {
	ok, err := s.Alerts.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Entity: "alert", ID: id}
	}
	return nil
}

type AlertFilter struct {
	Type    string // empty = all types
	Status  string // empty = default ACTIVE
	SortCol string
	SortDir string
}

type AlertPage struct {
	Alerts []domain.Alert
	Page   int
	Limit  int
	Total  int
	Pages  int
}

func (s *AlertService) List(f AlertFilter, page, limit int) (AlertPage, error) {
	if page < 1 {
		return AlertPage{}, domain.ValidationError{Field: "page", Reason: "must be a positive integer"}
	}
	if limit < 1 {
		return AlertPage{}, domain.ValidationError{Field: "limit", Reason: "must be a positive integer"}
	}
	if f.Status == "" {
		f.Status = string(domain.StatusActive)
	}
	if f.SortCol == "" {
		f.SortCol = "created_at"
	}
	if f.SortDir == "" {
		f.SortDir = "DESC"
	}

	alerts, total, err := s.Alerts.List(f.Type, f.Status, f.SortCol, f.SortDir, limit, (page-1)*limit)
	if err != nil {
		return AlertPage{}, err
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	pages := (total + limit - 1) / limit
	return AlertPage{Alerts: alerts, Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

func (s *AlertService) publish(e relay.Event) {
	if s.Sink != nil {
		s.Sink.Publish(e)
	}
}
