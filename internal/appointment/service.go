// Package appointment manages scheduled office appointments.
package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// allowedTransitions maps a status to the statuses it may move to.
// Completed is terminal; a canceled appointment can be rescheduled.
var allowedTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentScheduled: {model.AppointmentCompleted, model.AppointmentCanceled},
	model.AppointmentCanceled:  {model.AppointmentScheduled},
}

// Service provides appointment CRUD with status lifecycle enforcement.
type Service struct {
	appointments repository.AppointmentRepository
	audit        *audit.Recorder
	now          func() time.Time
}

// NewService creates an appointment Service.
func NewService(appointments repository.AppointmentRepository, auditor *audit.Recorder) *Service {
	return &Service{appointments: appointments, audit: auditor, now: time.Now}
}

// Input carries the writable appointment fields.
type Input struct {
	Title           string
	Description     string
	ScheduledAt     *time.Time
	DurationMinutes int
	Status          model.AppointmentStatus
}

// List returns appointments, optionally filtered by status.
func (s *Service) List(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, status)
}

// Get returns one appointment by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, model.NewNotFoundError("appointment", id)
	}
	return appt, nil
}

// Create stores a new appointment in the scheduled state.
func (s *Service) Create(ctx context.Context, actorEmail string, input Input) (*model.Appointment, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.NewInvalidRequestError("title is required")
	}
	if input.ScheduledAt == nil {
		return nil, model.NewInvalidRequestError("scheduled_at is required")
	}

	now := s.now()
	appt := &model.Appointment{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		ScheduledAt:     *input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Status:          model.AppointmentScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if appt.DurationMinutes <= 0 {
		appt.DurationMinutes = 30
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "create", "appointments", appt.ID, input)
	return appt, nil
}

// Update overwrites an appointment. A status change must follow the
// lifecycle: scheduled may complete or cancel, canceled may be rescheduled,
// completed is final.
func (s *Service) Update(ctx context.Context, actorEmail, id string, input Input) (*model.Appointment, error) {
	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != "" && input.Status != appt.Status {
		if !transitionAllowed(appt.Status, input.Status) {
			return nil, &model.APIError{
				Code:     model.ErrCodeInvalidTransition,
				Message:  "This status change is not allowed.",
				Category: "appointments",
				Action:   "Check the appointment's current status.",
			}
		}
		appt.Status = input.Status
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		appt.Title = title
	}
	appt.Description = input.Description
	if input.ScheduledAt != nil {
		appt.ScheduledAt = *input.ScheduledAt
	}
	if input.DurationMinutes > 0 {
		appt.DurationMinutes = input.DurationMinutes
	}
	appt.UpdatedAt = s.now()

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "update", "appointments", appt.ID, input)
	return appt, nil
}

// Delete removes an appointment.
func (s *Service) Delete(ctx context.Context, actorEmail, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "appointments", id, nil)
	return nil
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
