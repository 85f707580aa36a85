package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"expyra/internal/domain"
	"expyra/internal/relay"
	"expyra/internal/repos"
	"expyra/internal/services"
)

func newAlertService(db *sqlx.DB, sink services.EventSink) *services.AlertService {
	return services.NewAlertService(
		repos.NewAlertRepo(db),
		repos.NewProductRepo(db),
		repos.NewBatchRepo(db),
		sink,
	)
}

func TestAlertCreateValidation(t *testing.T) {
	db := memdb(t)
	svc := newAlertService(db, nil)

	cases := []struct {
		name  string
		in    services.CreateAlertInput
		field string
	}{
		{"bad type", services.CreateAlertInput{Type: "UNKNOWN", Title: "t", Message: "m"}, "type"},
		{"empty title", services.CreateAlertInput{Type: domain.AlertExpired, Title: "", Message: "m"}, "title"},
		{"empty message", services.CreateAlertInput{Type: domain.AlertExpired, Title: "t", Message: ""}, "message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.in)
			var ve domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field: want %s, got %s", tc.field, ve.Field)
			}
		})
	}

	// unknown product reference
	pid := "nope"
	_, err := svc.Create(services.CreateAlertInput{
		Type: domain.AlertLowStock, Title: "t", Message: "m", ProductID: &pid,
	})
	var ve domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "productId" {
		t.Fatalf("want productId validation error, got %v", err)
	}
}

func TestAlertLifecycle(t *testing.T) {
	db := memdb(t)
	sink := &captureSink{}
	svc := newAlertService(db, sink)

	a, err := svc.Create(services.CreateAlertInput{
		Type: domain.AlertNearExpiry, Title: "Milk expiring", Message: "Batch B-003 expires soon",
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != domain.StatusActive {
		t.Fatalf("new alert status: want ACTIVE, got %s", a.Status)
	}
	if a.ResolvedAt != nil {
		t.Fatal("new alert must not carry resolvedAt")
	}
	if got := len(sink.named(relay.EventNewAlert)); got != 1 {
		t.Fatalf("new_alert events: want 1, got %d", got)
	}

	resolved, err := svc.Transition(a.ID, domain.StatusResolved)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Status != domain.StatusResolved {
		t.Fatalf("want RESOLVED, got %s", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Fatal("resolvedAt must be set on transition to RESOLVED")
	}
	if got := len(sink.named(relay.EventAlertResolved)); got != 1 {
		t.Fatalf("alert_resolved events: want 1, got %d", got)
	}

	// same terminal state again: no-op, nothing re-stamped, no event
	again, err := svc.Transition(a.ID, domain.StatusResolved)
	if err != nil {
		t.Fatalf("re-resolve must be a no-op, got %v", err)
	}
	if *again.ResolvedAt != *resolved.ResolvedAt {
		t.Fatal("no-op re-resolve must not touch resolvedAt")
	}
	if got := len(sink.named(relay.EventAlertResolved)); got != 1 {
		t.Fatalf("no-op transition emitted an event")
	}

	// crossing terminal states fails
	_, err = svc.Transition(a.ID, domain.StatusDismissed)
	var it domain.InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("want InvalidTransitionError, got %v", err)
	}

	// and resolvedAt survived untouched
	got, err := svc.Get(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusResolved || got.ResolvedAt == nil {
		t.Fatalf("terminal state mutated: %+v", got)
	}
}

func TestAlertDismissLeavesResolvedAtUnset(t *testing.T) {
	db := memdb(t)
	svc := newAlertService(db, nil)

	a, err := svc.Create(services.CreateAlertInput{
		Type: domain.AlertLowStock, Title: "Low stock", Message: "3 units left",
	})
	if err != nil {
		t.Fatal(err)
	}
	dismissed, err := svc.Transition(a.ID, domain.StatusDismissed)
	if err != nil {
		t.Fatal(err)
	}
	if dismissed.Status != domain.StatusDismissed {
		t.Fatalf("want DISMISSED, got %s", dismissed.Status)
	}
	if dismissed.ResolvedAt != nil {
		t.Fatal("DISMISSED must not set resolvedAt")
	}
}

func TestAlertTransitionAndDeleteUnknown(t *testing.T) {
	db := memdb(t)
	svc := newAlertService(db, nil)

	var nf domain.NotFoundError
	if _, err := svc.Transition("missing", domain.StatusResolved); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if err := svc.Delete("missing"); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestAlertListPagination(t *testing.T) {
	db := memdb(t)
	svc := newAlertService(db, nil)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		i := i
		svc.Now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := svc.Create(services.CreateAlertInput{
			Type:    domain.AlertNearExpiry,
			Title:   fmt.Sprintf("alert %02d", i),
			Message: "m",
		}); err != nil {
			t.Fatal(err)
		}
	}
	// one resolved alert must not show up under the default ACTIVE filter
	a, err := svc.Create(services.CreateAlertInput{Type: domain.AlertExpired, Title: "done", Message: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Transition(a.ID, domain.StatusResolved); err != nil {
		t.Fatal(err)
	}

	page2, err := svc.List(services.AlertFilter{}, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2.Alerts) != 5 {
		t.Fatalf("page 2: want 5 alerts, got %d", len(page2.Alerts))
	}
	if page2.Total != 15 || page2.Pages != 2 {
		t.Fatalf("want total 15 pages 2, got total %d pages %d", page2.Total, page2.Pages)
	}

	// default sort is createdAt descending
	page1, err := svc.List(services.AlertFilter{}, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page1.Alerts[0].Title != "alert 14" {
		t.Fatalf("want newest first, got %s", page1.Alerts[0].Title)
	}

	if _, err := svc.List(services.AlertFilter{}, 0, 10); err == nil {
		t.Fatal("page 0 must be rejected")
	}
	if _, err := svc.List(services.AlertFilter{}, 1, 0); err == nil {
		t.Fatal("limit 0 must be rejected")
	}
}
