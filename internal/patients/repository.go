package patients

import (
	"context"

	"github.com/wolfman30/smart-hospital/internal/store"
)

// Repository defines patient storage.
type Repository interface {
	Register(ctx context.Context, req *RegisterRequest) (*Patient, error)
	List(ctx context.Context) ([]Patient, error)
	Get(ctx context.Context, pid int) (*Patient, error)
	UpdateStatus(ctx context.Context, pid int, status Status) error
	AddHistory(ctx context.Context, pid int, entry HistoryEntry) error
}

// DocumentRepository keeps patients in the store's patients document.
type DocumentRepository struct {
	store *store.Store
}

// NewDocumentRepository creates a repository over st.
func NewDocumentRepository(st *store.Store) *DocumentRepository {
	if st == nil {
		panic("patients: store required")
	}
	return &DocumentRepository{store: st}
}

// Register appends a PENDING patient. The pid is the record count plus FirstPID.
func (r *DocumentRepository) Register(ctx context.Context, req *RegisterRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created Patient
	err := store.UpdateRecords(ctx, r.store, store.Patients, func(records []Patient) ([]Patient, error) {
		created = Patient{
			PID:            len(records) + FirstPID,
			Name:           req.Name,
			Age:            req.Age,
			Contact:        req.Contact,
			Email:          req.Email,
			BloodGroup:     req.BloodGroup,
			MedicalHistory: []HistoryEntry{},
			CurrentStatus:  StatusPending,
		}
		return append(records, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns every patient in stored order.
func (r *DocumentRepository) List(ctx context.Context) ([]Patient, error) {
	records := store.LoadRecords[Patient](ctx, r.store, store.Patients)
	for i := range records {
		records[i].normalize()
	}
	return records, nil
}

// Get returns the patient with pid.
func (r *DocumentRepository) Get(ctx context.Context, pid int) (*Patient, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].PID == pid {
			return &records[i], nil
		}
	}
	return nil, ErrPatientNotFound
}

// UpdateStatus sets the patient's admission status.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, pid int, status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	return r.modify(ctx, pid, func(p *Patient) {
		p.CurrentStatus = status
	})
}

// AddHistory appends entry to the patient's medical history.
func (r *DocumentRepository) AddHistory(ctx context.Context, pid int, entry HistoryEntry) error {
	return r.modify(ctx, pid, func(p *Patient) {
		p.MedicalHistory = append(p.MedicalHistory, entry)
	})
}

func (r *DocumentRepository) modify(ctx context.Context, pid int, fn func(*Patient)) error {
	return store.UpdateRecords(ctx, r.store, store.Patients, func(records []Patient) ([]Patient, error) {
		for i := range records {
			if records[i].PID == pid {
				records[i].normalize()
				fn(&records[i])
				return records, nil
			}
		}
		return nil, ErrPatientNotFound
	})
}

var _ Repository = (*DocumentRepository)(nil)
