package appointments

import (
	"context"
	"errors"

	"github.com/wolfman30/smart-hospital/internal/patients"
	"github.com/wolfman30/smart-hospital/internal/staff"
	"github.com/wolfman30/smart-hospital/internal/store"
)

// PatientLookup finds a patient by pid.
type PatientLookup interface {
	Get(ctx context.Context, pid int) (*patients.Patient, error)
}

// StaffLookup finds a staff member by pid.
type StaffLookup interface {
	Get(ctx context.Context, pid int) (*staff.Member, error)
}

// Repository defines appointment storage.
type Repository interface {
	Book(ctx context.Context, req *BookRequest) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id int) (*Appointment, error)
	ScheduledForDoctor(ctx context.Context, doctorID int) ([]Appointment, error)
	Complete(ctx context.Context, id int) error
}

// DocumentRepository keeps appointments in the store's appointments document.
type DocumentRepository struct {
	store    *store.Store
	patients PatientLookup
	staff    StaffLookup
}

// NewDocumentRepository creates a repository over st.
func NewDocumentRepository(st *store.Store, patients PatientLookup, staff StaffLookup) *DocumentRepository {
	if st == nil {
		panic("appointments: store required")
	}
	if patients == nil || staff == nil {
		panic("appointments: patient and staff lookups required")
	}
	return &DocumentRepository{store: st, patients: patients, staff: staff}
}

// Book schedules req. The patient must exist and the doctor must be a staff
// member with the Doctor role. The id is the record count plus FirstID.
func (r *DocumentRepository) Book(ctx context.Context, req *BookRequest) (*Appointment, error) {
	slot, err := ParseTimeSlot(req.TimeSlot)
	if err != nil {
		return nil, err
	}
	p, err := r.patients.Get(ctx, req.PatientID)
	if errors.Is(err, patients.ErrPatientNotFound) {
		return nil, ErrPatientNotFound
	} else if err != nil {
		return nil, err
	}
	d, err := r.staff.Get(ctx, req.DoctorID)
	if errors.Is(err, staff.ErrMemberNotFound) {
		return nil, ErrDoctorNotFound
	} else if err != nil {
		return nil, err
	}
	if d.Role != staff.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	var booked Appointment
	err = store.UpdateRecords(ctx, r.store, store.Appointments, func(records []Appointment) ([]Appointment, error) {
		booked = Appointment{
			AppointmentID: len(records) + FirstID,
			PatientID:     p.PID,
			DoctorID:      d.PID,
			PatientName:   p.Name,
			DoctorName:    d.Name,
			TimeSlot:      slot,
			Status:        StatusScheduled,
		}
		return append(records, booked), nil
	})
	if err != nil {
		return nil, err
	}
	return &booked, nil
}

// List returns every appointment in stored order.
func (r *DocumentRepository) List(ctx context.Context) ([]Appointment, error) {
	return store.LoadRecords[Appointment](ctx, r.store, store.Appointments), nil
}

// Get returns the appointment with id.
func (r *DocumentRepository) Get(ctx context.Context, id int) (*Appointment, error) {
	for _, a := range store.LoadRecords[Appointment](ctx, r.store, store.Appointments) {
		if a.AppointmentID == id {
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

// ScheduledForDoctor returns the doctor's appointments still in Scheduled status.
func (r *DocumentRepository) ScheduledForDoctor(ctx context.Context, doctorID int) ([]Appointment, error) {
	out := []Appointment{}
	for _, a := range store.LoadRecords[Appointment](ctx, r.store, store.Appointments) {
		if a.DoctorID == doctorID && a.Status == StatusScheduled {
			out = append(out, a)
		}
	}
	return out, nil
}

// Complete marks the appointment Completed.
func (r *DocumentRepository) Complete(ctx context.Context, id int) error {
	return store.UpdateRecords(ctx, r.store, store.Appointments, func(records []Appointment) ([]Appointment, error) {
		for i := range records {
			if records[i].AppointmentID == id {
				records[i].Status = StatusCompleted
				return records, nil
			}
		}
		return nil, ErrAppointmentNotFound
	})
}

var _ Repository = (*DocumentRepository)(nil)
