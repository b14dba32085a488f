package patients

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/smart-hospital/internal/store"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func newTestRepo(t *testing.T) (*DocumentRepository, string) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(store.NewFileBackend(dir), logging.Discard())
	require.NoError(t, st.EnsureDocuments(context.Background()))
	return NewDocumentRepository(st), dir
}

func TestRegister_AssignsSequentialPIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Register(ctx, &RegisterRequest{Name: "Asha", Age: 34, Contact: "9876543210", BloodGroup: " O− "})
	require.NoError(t, err)
	assert.Equal(t, 101, first.PID)
	assert.Equal(t, StatusPending, first.CurrentStatus)
	assert.Equal(t, "O-", first.BloodGroup)

	second, err := repo.Register(ctx, &RegisterRequest{Name: "Ben", Contact: "0123456789"})
	require.NoError(t, err)
	assert.Equal(t, 102, second.PID)
	assert.Equal(t, UnknownBloodGroup, second.BloodGroup)
}

func TestRegister_CorruptRecordBlocksPIDReuse(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()
	doc := `[{"pid":101,"name":"Asha","contact":"9876543210"},{"pid":"102"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.Patients+".json"), []byte(doc), 0o644))

	_, err := repo.Register(ctx, &RegisterRequest{Name: "Ben", Contact: "0123456789"})
	assert.ErrorIs(t, err, store.ErrUndecodableRecord)

	data, err := os.ReadFile(filepath.Join(dir, store.Patients+".json"))
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))
}

func TestRegister_Validation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"blank name", RegisterRequest{Name: "  ", Contact: "9876543210"}, ErrInvalidName},
		{"short contact", RegisterRequest{Name: "A", Contact: "12345"}, ErrInvalidContact},
		{"letters in contact", RegisterRequest{Name: "A", Contact: "98765abcde"}, ErrInvalidContact},
		{"bad email", RegisterRequest{Name: "A", Contact: "9876543210", Email: "nobody"}, ErrInvalidEmail},
		{"bad blood group", RegisterRequest{Name: "A", Contact: "9876543210", BloodGroup: "C+"}, ErrInvalidBloodGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateStatusAndHistory(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	p, err := repo.Register(ctx, &RegisterRequest{Name: "Asha", Contact: "9876543210"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, p.PID, StatusAdmitted))
	require.NoError(t, repo.AddHistory(ctx, p.PID, HistoryEntry{
		Date: "2026-01-02", Diagnosis: "Flu", Treatment: "Rest", DoctorID: 201,
	}))

	got, err := repo.Get(ctx, p.PID)
	require.NoError(t, err)
	assert.Equal(t, StatusAdmitted, got.CurrentStatus)
	require.Len(t, got.MedicalHistory, 1)
	assert.Equal(t, "Flu", got.MedicalHistory[0].DiagnosisText())

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 999, StatusDischarged), ErrPatientNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, p.PID, Status("GONE")), ErrInvalidStatus)
	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestList_ReadsLegacyRecords(t *testing.T) {
	repo, dir := newTestRepo(t)
	legacy := `[{"pid": 101, "name": "Old", "age": 60, "contact": "9876543210",
		"medical_history": [{"date": "2024-05-01", "disease": "Malaria", "ai_prediction": "Quinine"}]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patients.json"), []byte(legacy), 0o644))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusPending, list[0].CurrentStatus)
	assert.Equal(t, UnknownBloodGroup, list[0].BloodGroup)
	assert.Equal(t, "Malaria", list[0].MedicalHistory[0].DiagnosisText())
	assert.Equal(t, "N/A", list[0].MedicalHistory[0].TreatmentText())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" discharged ")
	require.NoError(t, err)
	assert.Equal(t, StatusDischarged, st)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
