package staff

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/smart-hospital/internal/store"
)

// Repository defines staff storage.
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Member, error)
	List(ctx context.Context) ([]Member, error)
	Delete(ctx context.Context, email string) error
	FindByEmail(ctx context.Context, email string) (*Member, error)
	Get(ctx context.Context, pid int) (*Member, error)
	Doctors(ctx context.Context) ([]Member, error)
	SetPasswordHash(ctx context.Context, email, password string) error
	SeedAdmin(ctx context.Context, password string) (bool, error)
}

// DocumentRepository keeps staff in the store's staff document.
type DocumentRepository struct {
	store *store.Store
	cost  int
}

// NewDocumentRepository creates a repository over st that hashes with
// bcrypt.DefaultCost.
func NewDocumentRepository(st *store.Store) *DocumentRepository {
	return newDocumentRepositoryWithCost(st, bcrypt.DefaultCost)
}

func newDocumentRepositoryWithCost(st *store.Store, cost int) *DocumentRepository {
	if st == nil {
		panic("staff: store required")
	}
	return &DocumentRepository{store: st, cost: cost}
}

func (r *DocumentRepository) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return "", fmt.Errorf("staff: hash password: %w", err)
	}
	return string(h), nil
}

// Create validates req and appends a member. The pid is one more than the
// highest existing pid, and never below 201.
func (r *DocumentRepository) Create(ctx context.Context, req *CreateRequest) (*Member, error) {
	role, err := req.validate()
	if err != nil {
		return nil, err
	}
	hash, err := r.hash(req.Password)
	if err != nil {
		return nil, err
	}

	var created Member
	err = store.UpdateRecords(ctx, r.store, store.Staff, func(records []Member) ([]Member, error) {
		top := firstPID
		for _, m := range records {
			if strings.EqualFold(m.Email, req.Email) {
				return nil, ErrEmailExists
			}
			if m.PID > top {
				top = m.PID
			}
		}
		created = Member{
			PID:          top + 1,
			Name:         strings.TrimSpace(req.Name),
			Age:          req.Age,
			Contact:      req.Contact,
			Role:         role,
			ShiftTiming:  req.ShiftTiming,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if role == RoleDoctor {
			created.Specialization = req.Specialization
			created.AvailableSlots = trimSlots(req.AvailableSlots)
		}
		return append(records, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns every member with the password masked.
func (r *DocumentRepository) List(ctx context.Context) ([]Member, error) {
	records := store.LoadRecords[Member](ctx, r.store, store.Staff)
	out := make([]Member, len(records))
	for i, m := range records {
		out[i] = m.Masked()
	}
	return out, nil
}

// Delete removes every member with email.
func (r *DocumentRepository) Delete(ctx context.Context, email string) error {
	return store.UpdateRecords(ctx, r.store, store.Staff, func(records []Member) ([]Member, error) {
		kept := records[:0]
		for _, m := range records {
			if m.Email != email {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(records) {
			return nil, ErrMemberNotFound
		}
		return kept, nil
	})
}

// FindByEmail returns the unmasked member with email.
func (r *DocumentRepository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	for _, m := range store.LoadRecords[Member](ctx, r.store, store.Staff) {
		if m.Email == email {
			return &m, nil
		}
	}
	return nil, ErrMemberNotFound
}

// Get returns the masked member with pid.
func (r *DocumentRepository) Get(ctx context.Context, pid int) (*Member, error) {
	for _, m := range store.LoadRecords[Member](ctx, r.store, store.Staff) {
		if m.PID == pid {
			masked := m.Masked()
			return &masked, nil
		}
	}
	return nil, ErrMemberNotFound
}

// Doctors returns the members with the Doctor role, masked.
func (r *DocumentRepository) Doctors(ctx context.Context) ([]Member, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Member
	for _, m := range all {
		if m.Role == RoleDoctor {
			out = append(out, m)
		}
	}
	return out, nil
}

// SetPasswordHash replaces the member's password with a bcrypt hash and
// clears any plaintext password.
func (r *DocumentRepository) SetPasswordHash(ctx context.Context, email, password string) error {
	hash, err := r.hash(password)
	if err != nil {
		return err
	}
	return store.UpdateRecords(ctx, r.store, store.Staff, func(records []Member) ([]Member, error) {
		for i := range records {
			if records[i].Email == email {
				records[i].PasswordHash = hash
				records[i].Password = ""
				return records, nil
			}
		}
		return nil, ErrMemberNotFound
	})
}

// SeedAdmin creates the administrator account if no member uses AdminEmail.
// It reports whether a record was written.
func (r *DocumentRepository) SeedAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, ErrMissingCredentials
	}
	hash, err := r.hash(password)
	if err != nil {
		return false, err
	}

	created := false
	err = store.UpdateRecords(ctx, r.store, store.Staff, func(records []Member) ([]Member, error) {
		for _, m := range records {
			if m.Email == AdminEmail {
				return records, nil
			}
		}
		created = true
		return append(records, Member{
			PID:          AdminPID,
			Name:         AdminName,
			Age:          30,
			Contact:      "N/A",
			Role:         RoleAdmin,
			ShiftTiming:  "N/A",
			Email:        AdminEmail,
			PasswordHash: hash,
		}), nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

var _ Repository = (*DocumentRepository)(nil)
