// Package model defines the domain models.
package model

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCanceled  AppointmentStatus = "canceled"
)

// Appointment is a scheduled slot at an office or service point.
type Appointment struct {
	ID              string
	Title           string
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int
	Status          AppointmentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AuditLog records one administrative mutation for traceability.
type AuditLog struct {
	ID        string
	UserEmail string
	Action    string // create|update|delete
	Entity    string
	EntityID  string
	Changes   string // JSON diff
	CreatedAt time.Time
}
