// Package schedule supplies the day's appointment list. The list is a fixture:
// either the built-in day or an ordered YAML file.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tinytelemetry/consultas/internal/model"
	"gopkg.in/yaml.v3"
)

// Static returns a fixed list of appointments.
type Static []model.Appointment

// DefaultDay is the built-in appointment list.
func DefaultDay() Static {
	return Static{
		{
			ClinicianName: "Dr. João Silva",
			Specialty:     "Cardiology",
			PatientName:   "Maria José Santos",
			VisitType:     "Routine visit",
			Time:          "09:30",
		},
		{
			ClinicianName: "Dra. Ana Costa",
			Specialty:     "Dermatology",
			PatientName:   "José Pereira",
			VisitType:     "Follow-up",
			Time:          "14:00",
		},
	}
}

func (s Static) Appointments(_ context.Context) ([]model.Appointment, error) {
	out := make([]model.Appointment, len(s))
	copy(out, s)
	return out, nil
}

// fileDoc is the on-disk layout of an appointments file.
type fileDoc struct {
	Appointments []model.Appointment `yaml:"appointments"`
}

// FileSource reads appointments from a YAML file on every call.
type FileSource struct {
	Path string
}

func (f FileSource) Appointments(_ context.Context) ([]model.Appointment, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading appointments file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an appointments document and checks every entry names both
// a clinician and a patient.
func Parse(data []byte) ([]model.Appointment, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing appointments: %w", err)
	}

	var errs []error
	for i, a := range doc.Appointments {
		if a.ClinicianName == "" {
			errs = append(errs, fmt.Errorf("appointment %d: missing clinician", i+1))
		}
		if a.PatientName == "" {
			errs = append(errs, fmt.Errorf("appointment %d: missing patient", i+1))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return doc.Appointments, nil
}

// Load picks the file source when a path is configured and the built-in day
// otherwise.
func Load(path string) model.AppointmentSource {
	if path == "" {
		return DefaultDay()
	}
	return FileSource{Path: path}
}
