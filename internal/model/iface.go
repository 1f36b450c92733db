package model

import "context"

// AppointmentSource supplies the ordered appointment list shown on the list screen.
// Implementations may read a fixture file, call a scheduling API, or return a
// hard-coded day.
type AppointmentSource interface {
	Appointments(ctx context.Context) ([]Appointment, error)
}
