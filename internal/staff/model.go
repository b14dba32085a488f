// Package staff manages hospital staff accounts: admins, doctors, nurses and
// general staff.
package staff

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/smart-hospital/internal/validation"
)

// Role gates which parts of the hospital a member can use.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleDoctor Role = "Doctor"
	RoleNurse  Role = "Nurse"
	RoleStaff  Role = "Staff"
)

// ParseRole matches s case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleStaff} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

const (
	// firstPID is one less than the pid of the first created member.
	firstPID = 200

	// AdminPID is the fixed pid of the seeded administrator.
	AdminPID = 100
	// AdminEmail is the seeded administrator's login.
	AdminEmail = "admin@hospital.com"
	// AdminName is the seeded administrator's display name.
	AdminName = "System Admin"

	maskedPassword = "****"
)

// Member is one record of the staff document. Password holds a plaintext
// password only on records that predate hashing; it is cleared at the first
// successful login.
type Member struct {
	PID            int      `json:"pid"`
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Contact        string   `json:"contact"`
	Role           Role     `json:"role"`
	ShiftTiming    string   `json:"shift_timing"`
	Email          string   `json:"email"`
	Password       string   `json:"password,omitempty"`
	PasswordHash   string   `json:"password_hash,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
	AvailableSlots []string `json:"available_slots,omitempty"`
}

// Masked returns a copy safe to show to an administrator.
func (m Member) Masked() Member {
	m.Password = maskedPassword
	m.PasswordHash = ""
	return m
}

// CheckPassword reports whether password matches. legacy is true when the
// match was against a stored plaintext password.
func (m Member) CheckPassword(password string) (ok, legacy bool) {
	if m.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) == nil, false
	}
	if m.Password != "" && m.Password == password {
		return true, true
	}
	return false, false
}

// CreateRequest is the admin's new-user form. Specialization and
// AvailableSlots only apply to doctors.
type CreateRequest struct {
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Contact        string   `json:"contact"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Role           string   `json:"role"`
	ShiftTiming    string   `json:"shift_timing"`
	Specialization string   `json:"specialization,omitempty"`
	AvailableSlots []string `json:"available_slots,omitempty"`
}

// validate checks the fields that do not need the stored records.
func (r *CreateRequest) validate() (Role, error) {
	r.Email = strings.TrimSpace(r.Email)
	if !validation.ValidEmail(r.Email) {
		return "", ErrInvalidEmail
	}
	if !validation.ValidContact(r.Contact) {
		return "", ErrInvalidContact
	}
	if r.Password == "" {
		return "", ErrMissingCredentials
	}
	return ParseRole(r.Role)
}

func trimSlots(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
