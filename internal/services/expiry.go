package services

import (
	"fmt"
	"math"
	"time"

	"expyra/internal/domain"
	"expyra/internal/relay"
	"expyra/internal/repos"
)

type ExpiryStatus string

const (
	ExpiryGood     ExpiryStatus = "good"
	ExpiryWarning  ExpiryStatus = "warning"
	ExpiryCritical ExpiryStatus = "critical"
	ExpiryExpired  ExpiryStatus = "expired"
)

// Classification is the derived expiry view of a batch. It is never stored;
// every pass recomputes it from the expiry timestamp.
type Classification struct {
	Status          ExpiryStatus
	DaysUntilExpiry int
	AlertType       domain.AlertType // suggested; empty when not alert-worthy
}

func (c Classification) Alertable() bool { return c.AlertType != "" }

// Classify buckets a batch by ceil((expiry-now)/1d). A batch expiring at the
// current instant (day 0) is critical, not expired; expiry is exclusive of
// the boundary day.
func Classify(expiry, now time.Time) Classification {
	days := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	switch {
	case days < 0:
		return Classification{Status: ExpiryExpired, DaysUntilExpiry: days, AlertType: domain.AlertExpired}
	case days <= 3:
		return Classification{Status: ExpiryCritical, DaysUntilExpiry: days, AlertType: domain.AlertNearExpiry}
	case days <= 7:
		return Classification{Status: ExpiryWarning, DaysUntilExpiry: days, AlertType: domain.AlertNearExpiry}
	default:
		return Classification{Status: ExpiryGood, DaysUntilExpiry: days}
	}
}

// CheckResult summarizes one expiry sweep.
type CheckResult struct {
	Checked   int `json:"checked"`
	NewAlerts int `json:"newAlerts"`
}

// ExpiryService runs the synchronous expiry sweep. There is no background
// scheduler; a sweep happens only when a client asks for one.
type ExpiryService struct {
	Batches           *repos.BatchRepo
	AlertRepo         *repos.AlertRepo
	Alerts            *AlertService
	Sink              EventSink
	LowStockThreshold int
	DonationMinQty    int
}

func NewExpiryService(batches *repos.BatchRepo, alertRepo *repos.AlertRepo, alerts *AlertService, sink EventSink, lowStock, donationMin int) *ExpiryService {
	return &ExpiryService{
		Batches:           batches,
		AlertRepo:         alertRepo,
		Alerts:            alerts,
		Sink:              sink,
		LowStockThreshold: lowStock,
		DonationMinQty:    donationMin,
	}
}

func (s *ExpiryService) RunCheck() (CheckResult, error) {
	return s.RunCheckAt(time.Now().UTC())
}

// RunCheckAt classifies every batch and raises alerts for the ones that need
// attention. A batch that already carries an ACTIVE alert of the same type is
// skipped, so repeated sweeps do not duplicate alerts.
func (s *ExpiryService) RunCheckAt(now time.Time) (CheckResult, error) {
	batches, err := s.Batches.ListAllWithProduct()
	if err != nil {
		return CheckResult{}, err
	}

	res := CheckResult{Checked: len(batches)}
	for _, b := range batches {
		expiry, err := b.ExpiryTime()
		if err != nil {
			return res, fmt.Errorf("batch %s: bad expiry date: %w", b.ID, err)
		}
		cls := Classify(expiry, now)

		if cls.Alertable() {
			created, err := s.raise(b, cls.AlertType, expiryTitle(b, cls), expiryMessage(b, cls))
			if err != nil {
				return res, err
			}
			if created {
				res.NewAlerts++
			}
		}

		// Donation candidates: still plenty of stock but about to expire.
		if cls.Status == ExpiryCritical && b.CurrentQuantity >= s.DonationMinQty {
			created, err := s.raise(b, domain.AlertDonationReady,
				fmt.Sprintf("Batch %s ready for donation", b.BatchCode),
				fmt.Sprintf("%d units of %s (batch %s) expire within %d days. Consider donating.",
					b.CurrentQuantity, b.ProductName, b.BatchCode, cls.DaysUntilExpiry))
			if err != nil {
				return res, err
			}
			if created {
				res.NewAlerts++
			}
		}

		if b.CurrentQuantity < s.LowStockThreshold {
			created, err := s.raise(b, domain.AlertLowStock,
				fmt.Sprintf("%s stock low", b.ProductName),
				fmt.Sprintf("Batch %s of %s is down to %d units.",
					b.BatchCode, b.ProductName, b.CurrentQuantity))
			if err != nil {
				return res, err
			}
			if created {
				res.NewAlerts++
			}
		}
	}

	if s.Sink != nil {
		s.Sink.Publish(relay.Event{Name: relay.EventCheckCompleted, Payload: res})
	}
	return res, nil
}

func (s *ExpiryService) raise(b repos.BatchStock, typ domain.AlertType, title, message string) (bool, error) {
	exists, err := s.AlertRepo.HasActive(b.ID, typ)
	if err != nil || exists {
		return false, err
	}
	_, err = s.Alerts.Create(CreateAlertInput{
		Type:      typ,
		Title:     title,
		Message:   message,
		ProductID: &b.ProductID,
		BatchID:   &b.Batch.ID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func expiryTitle(b repos.BatchStock, cls Classification) string {
	switch {
	case cls.Status == ExpiryExpired:
		return fmt.Sprintf("Batch %s expired", b.BatchCode)
	case cls.DaysUntilExpiry == 0:
		return fmt.Sprintf("Batch %s expires today", b.BatchCode)
	case cls.DaysUntilExpiry == 1:
		return fmt.Sprintf("Batch %s expires tomorrow", b.BatchCode)
	default:
		return fmt.Sprintf("Batch %s expires in %d days", b.BatchCode, cls.DaysUntilExpiry)
	}
}

func expiryMessage(b repos.BatchStock, cls Classification) string {
	if cls.Status == ExpiryExpired {
		return fmt.Sprintf("Batch %s of %s expired on %s. Remove it from inventory.",
			b.BatchCode, b.ProductName, b.ExpiryDate)
	}
	return fmt.Sprintf("Batch %s of %s (%d units) expires on %s.",
		b.BatchCode, b.ProductName, b.CurrentQuantity, b.ExpiryDate)
}
