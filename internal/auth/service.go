package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wolfman30/smart-hospital/internal/staff"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

const issuer = "smart-hospital"

// CredentialStore is the part of the staff repository login needs.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*staff.Member, error)
	SetPasswordHash(ctx context.Context, email, password string) error
}

// Session is a signed token and who it belongs to.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	PID       int        `json:"pid"`
	Role      staff.Role `json:"role"`
	Name      string     `json:"name"`
}

// Service checks credentials against the staff document. There is no
// built-in account: the administrator must exist as a staff record.
type Service struct {
	staff  CredentialStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger
}

// NewService creates an auth service. An empty secret leaves login disabled.
func NewService(store CredentialStore, secret string, ttl time.Duration, logger *logging.Logger) *Service {
	if store == nil {
		panic("auth: credential store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Service{staff: store, secret: []byte(secret), ttl: ttl, now: time.Now, logger: logger}
}

// Login verifies email and password and issues a session token. A member
// still stored with a plaintext password has it replaced by a hash.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if len(s.secret) == 0 {
		return nil, ErrSessionsDisabled
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	m, err := s.staff.FindByEmail(ctx, email)
	if errors.Is(err, staff.ErrMemberNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("auth: find member: %w", err)
	}
	ok, legacy := m.CheckPassword(password)
	if !ok {
		s.logger.Warn("auth: login failed", "email", email)
		return nil, ErrInvalidCredentials
	}
	if legacy {
		if err := s.staff.SetPasswordHash(ctx, m.Email, password); err != nil {
			s.logger.Warn("auth: could not upgrade plaintext password", "email", m.Email, "error", err)
		} else {
			s.logger.Info("auth: upgraded plaintext password", "email", m.Email)
		}
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := &Claims{
		PID:   m.PID,
		Role:  m.Role,
		Name:  m.Name,
		Email: m.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.Itoa(m.PID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	s.logger.Info("auth: login", "pid", m.PID, "role", m.Role)
	return &Session{Token: token, ExpiresAt: expires, PID: m.PID, Role: m.Role, Name: m.Name}, nil
}

// Verify parses and validates a session token.
func (s *Service) Verify(token string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrSessionsDisabled
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
