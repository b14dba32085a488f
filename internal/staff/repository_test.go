package staff

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/smart-hospital/internal/store"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func newTestRepo(t *testing.T) (*DocumentRepository, string) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(store.NewFileBackend(dir), logging.Discard())
	require.NoError(t, st.EnsureDocuments(context.Background()))
	return newDocumentRepositoryWithCost(st, bcrypt.MinCost), dir
}

func doctorRequest() *CreateRequest {
	return &CreateRequest{
		Name:           "Dr. Smith",
		Age:            45,
		Contact:        "5550199000",
		Email:          "dr.smith@hospital.com",
		Password:       "password123",
		Role:           "doctor",
		ShiftTiming:    "09:00-17:00",
		Specialization: "General Physician",
		AvailableSlots: []string{" 09:00", "10:00 ", ""},
	}
}

func TestCreate_DoctorGetsFirstPIDAndHash(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	m, err := repo.Create(ctx, doctorRequest())
	require.NoError(t, err)
	assert.Equal(t, 201, m.PID)
	assert.Equal(t, RoleDoctor, m.Role)
	assert.Equal(t, []string{"09:00", "10:00"}, m.AvailableSlots)
	assert.Empty(t, m.Password)

	ok, legacy := m.CheckPassword("password123")
	assert.True(t, ok)
	assert.False(t, legacy)
}

func TestCreate_PIDFollowsHighestExisting(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.SeedAdmin(ctx, "s3cret")
	require.NoError(t, err)
	first, err := repo.Create(ctx, doctorRequest())
	require.NoError(t, err)
	assert.Equal(t, 201, first.PID)

	nurse, err := repo.Create(ctx, &CreateRequest{
		Name: "Nia", Contact: "1234567890", Email: "nia@hospital.com", Password: "pw", Role: "Nurse",
		Specialization: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, 202, nurse.PID)
	assert.Empty(t, nurse.Specialization)
}

func TestCreate_Validation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.Create(ctx, doctorRequest())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{"bad email", func(r *CreateRequest) { r.Email = "smith" }, ErrInvalidEmail},
		{"empty email", func(r *CreateRequest) { r.Email = "" }, ErrInvalidEmail},
		{"bad contact", func(r *CreateRequest) { r.Contact = "555-0199" }, ErrInvalidContact},
		{"duplicate email", func(r *CreateRequest) {}, ErrEmailExists},
		{"missing password", func(r *CreateRequest) { r.Email = "x@y.com"; r.Password = "" }, ErrMissingCredentials},
		{"bad role", func(r *CreateRequest) { r.Email = "x@y.com"; r.Role = "Janitor" }, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := doctorRequest()
			tt.mutate(req)
			_, err := repo.Create(ctx, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestList_MasksPasswords(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.Create(ctx, doctorRequest())
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "****", list[0].Password)
	assert.Empty(t, list[0].PasswordHash)

	doctors, err := repo.Doctors(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)

	got, err := repo.Get(ctx, 201)
	require.NoError(t, err)
	assert.Equal(t, "****", got.Password)
	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.Create(ctx, doctorRequest())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "dr.smith@hospital.com"))
	assert.ErrorIs(t, repo.Delete(ctx, "dr.smith@hospital.com"), ErrMemberNotFound)
	_, err = repo.FindByEmail(ctx, "dr.smith@hospital.com")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestSeedAdmin_OnlyOnce(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.SeedAdmin(ctx, "first")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.SeedAdmin(ctx, "second")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := repo.FindByEmail(ctx, AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, AdminPID, admin.PID)
	assert.Equal(t, RoleAdmin, admin.Role)
	ok, _ := admin.CheckPassword("first")
	assert.True(t, ok)

	_, err = repo.SeedAdmin(ctx, "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLegacyPlaintextPasswordUpgrade(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()
	legacy := `[{"pid": 201, "name": "Dr. Smith", "age": 45, "contact": "555-0199", "role": "Doctor",
		"shift_timing": "09:00-17:00", "email": "dr.smith@hospital.com", "password": "password123",
		"specialization": "General Physician", "available_slots": ["09:00", "10:00"]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staff.json"), []byte(legacy), 0o644))

	m, err := repo.FindByEmail(ctx, "dr.smith@hospital.com")
	require.NoError(t, err)
	ok, isLegacy := m.CheckPassword("password123")
	assert.True(t, ok)
	assert.True(t, isLegacy)
	ok, _ = m.CheckPassword("wrong")
	assert.False(t, ok)

	require.NoError(t, repo.SetPasswordHash(ctx, m.Email, "password123"))
	m, err = repo.FindByEmail(ctx, "dr.smith@hospital.com")
	require.NoError(t, err)
	assert.Empty(t, m.Password)
	ok, isLegacy = m.CheckPassword("password123")
	assert.True(t, ok)
	assert.False(t, isLegacy)

	assert.ErrorIs(t, repo.SetPasswordHash(ctx, "ghost@hospital.com", "x"), ErrMemberNotFound)
}
