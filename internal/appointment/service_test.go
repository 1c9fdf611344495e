package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/model"
)

type fakeAppointmentRepo struct {
	byID map[string]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: map[string]*model.Appointment{}}
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, id string) (*model.Appointment, error) {
	return f.byID[id], nil
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *model.Appointment) error {
	clone := *appt
	f.byID[appt.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, appt *model.Appointment) error {
	clone := *appt
	f.byID[appt.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.byID {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newTestService(repo *fakeAppointmentRepo) *Service {
	svc := NewService(repo, audit.NewRecorder(&fakeAuditRepo{}))
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func scheduledAt() *time.Time {
	at := time.Date(2026, 4, 15, 14, 0, 0, 0, time.UTC)
	return &at
}

func TestCreateStartsScheduled(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo())

	appt, err := svc.Create(context.Background(), "admin@x.com", Input{
		Title:       "Migration office Bern",
		ScheduledAt: scheduledAt(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if appt.Status != model.AppointmentScheduled {
		t.Errorf("status = %q, want scheduled", appt.Status)
	}
	if appt.DurationMinutes != 30 {
		t.Errorf("duration = %d, want default 30", appt.DurationMinutes)
	}
}

func TestCreateRequiresTitleAndTime(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "a@x.com", Input{ScheduledAt: scheduledAt()}); err == nil {
		t.Error("want error for missing title")
	}
	if _, err := svc.Create(ctx, "a@x.com", Input{Title: "No time"}); err == nil {
		t.Error("want error for missing scheduled_at")
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo())
	ctx := context.Background()

	appt, err := svc.Create(ctx, "a@x.com", Input{Title: "RAV meeting", ScheduledAt: scheduledAt()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	canceled, err := svc.Update(ctx, "a@x.com", appt.ID, Input{Status: model.AppointmentCanceled})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != model.AppointmentCanceled {
		t.Errorf("status = %q, want canceled", canceled.Status)
	}

	// Canceled can be rescheduled.
	rescheduled, err := svc.Update(ctx, "a@x.com", appt.ID, Input{Status: model.AppointmentScheduled})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if rescheduled.Status != model.AppointmentScheduled {
		t.Errorf("status = %q, want scheduled", rescheduled.Status)
	}

	if _, err := svc.Update(ctx, "a@x.com", appt.ID, Input{Status: model.AppointmentCompleted}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Completed is terminal.
	_, err = svc.Update(ctx, "a@x.com", appt.ID, Input{Status: model.AppointmentScheduled})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidTransition {
		t.Fatalf("want invalid transition error, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, "a@x.com", Input{Title: "One", ScheduledAt: scheduledAt()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "a@x.com", Input{Title: "Two", ScheduledAt: scheduledAt()}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(ctx, "a@x.com", first.ID, Input{Status: model.AppointmentCompleted}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	completed, err := svc.List(ctx, model.AppointmentCompleted)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("completed = %d, want 1", len(completed))
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}
}
