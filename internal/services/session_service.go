package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
)

const (
	AdminSessionTTL  = 7 * 24 * time.Hour
	DriverSessionTTL = 30 * 24 * time.Hour
)

// Principal is a resolved session owner.
type Principal struct {
	Kind       models.SessionKind
	DriverID   uint
	AdminEmail string
}

// SessionService issues, resolves and revokes opaque bearer tokens. Tokens
// live in the database so they survive restarts and can be revoked.
type SessionService struct {
	db  func() *gorm.DB
	now func() time.Time
}

func NewSessionService(db func() *gorm.DB) *SessionService {
	return &SessionService{db: db, now: time.Now}
}

// IssueAdmin creates a new admin session with a 7 day TTL.
func (s *SessionService) IssueAdmin(email string) (*models.Session, error) {
	return s.issue(models.Session{
		Kind:       models.SessionAdmin,
		AdminEmail: email,
	}, AdminSessionTTL)
}

// IssueDriver creates a new driver session with a 30 day TTL.
func (s *SessionService) IssueDriver(driverID uint) (*models.Session, error) {
	return s.issue(models.Session{
		Kind:     models.SessionDriver,
		DriverID: driverID,
	}, DriverSessionTTL)
}

func (s *SessionService) issue(session models.Session, ttl time.Duration) (*models.Session, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	session.Token = newSessionToken()
	session.ExpiresAt = s.now().Add(ttl)

	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Resolve maps a token to its principal. It fails closed: an empty, unknown
// or expired token yields ErrSessionInvalid. Expiry is never extended here.
func (s *SessionService) Resolve(token string) (*Principal, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	var session models.Session
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	if s.now().After(session.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	return &Principal{
		Kind:       session.Kind,
		DriverID:   session.DriverID,
		AdminEmail: session.AdminEmail,
	}, nil
}

// Revoke deletes the session for a token. Revoking an unknown token is a
// no-op success.
func (s *SessionService) Revoke(token string) error {
	if token == "" {
		return nil
	}

	db := s.db()
	if db == nil {
		return ErrStoreUnavailable
	}

	return db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// newSessionToken mints an unguessable 64-character token from two UUIDs.
func newSessionToken() string {
	return strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
}
