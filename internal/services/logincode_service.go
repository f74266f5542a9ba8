package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
	"route_scheduler/internal/notify"
)

const loginCodeTTL = 10 * time.Minute

// RequestMeta carries the transport metadata recorded with every login
// attempt. Handlers fill it from the inbound request.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// adminCodeEntry is the in-memory login code for the single authorized
// admin. There is exactly one admin, so no table is needed.
type adminCodeEntry struct {
	code      string
	expiresAt time.Time
}

// LoginCodeService generates, delivers and verifies single-use 6-digit login
// codes for the two principal kinds. Driver codes are persisted on the
// driver row as bcrypt hashes; the admin code is held in memory.
type LoginCodeService struct {
	db         func() *gorm.DB
	dispatcher *notify.Dispatcher
	adminEmail string
	now        func() time.Time

	mu        sync.Mutex
	adminCode *adminCodeEntry
}

func NewLoginCodeService(db func() *gorm.DB, dispatcher *notify.Dispatcher, adminEmail string) *LoginCodeService {
	return &LoginCodeService{
		db:         db,
		dispatcher: dispatcher,
		adminEmail: adminEmail,
		now:        time.Now,
	}
}

// RequestAdminCode issues a login code for the authorized admin email and
// delivers it by email. The returned message is informational only; delivery
// failure does not fail the request.
func (s *LoginCodeService) RequestAdminCode(email string, meta RequestMeta) (string, error) {
	if !strings.EqualFold(email, s.adminEmail) {
		s.logAttempt(models.SessionAdmin, models.AttemptRequestCode, email, nil, false, "email not authorized", meta)
		return "", ErrEmailNotAuthorized
	}

	code, err := generateLoginCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.adminCode = &adminCodeEntry{code: code, expiresAt: s.now().Add(loginCodeTTL)}
	s.mu.Unlock()

	res := s.dispatcher.Send(s.adminEmail, "", "Your login code", loginCodeMessage(code))
	s.logAttempt(models.SessionAdmin, models.AttemptRequestCode, email, nil, true, "", meta)

	if !res.EmailDelivered {
		return "Login code generated but could not be delivered", nil
	}
	return "Login code sent to your email", nil
}

// VerifyAdminCode checks the in-memory admin code. The code is single use
// and cleared the moment it verifies.
func (s *LoginCodeService) VerifyAdminCode(email, code string, meta RequestMeta) error {
	if !strings.EqualFold(email, s.adminEmail) {
		s.logAttempt(models.SessionAdmin, models.AttemptVerifyCode, email, nil, false, "email not authorized", meta)
		return ErrEmailNotAuthorized
	}

	s.mu.Lock()
	entry := s.adminCode
	valid := entry != nil && entry.code == code && s.now().Before(entry.expiresAt)
	if valid {
		s.adminCode = nil
	}
	s.mu.Unlock()

	if !valid {
		reason := "wrong code"
		if entry == nil {
			reason = "no code requested"
		} else if !s.now().Before(entry.expiresAt) {
			reason = "code expired"
		}
		s.logAttempt(models.SessionAdmin, models.AttemptVerifyCode, email, nil, false, reason, meta)
		return ErrInvalidLoginCode
	}

	s.logAttempt(models.SessionAdmin, models.AttemptVerifyCode, email, nil, true, "", meta)
	return nil
}

// RequestDriverCode issues a login code for the driver registered under the
// given phone number and delivers it over SMS, plus email when on file.
func (s *LoginCodeService) RequestDriverCode(phone string, meta RequestMeta) (string, error) {
	db := s.db()
	if db == nil {
		return "", ErrStoreUnavailable
	}

	var driver models.Driver
	if err := db.Where("phone = ?", phone).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logAttempt(models.SessionDriver, models.AttemptRequestCode, phone, nil, false, "phone not registered", meta)
			return "", ErrPhoneNotRegistered
		}
		return "", err
	}

	code, err := s.storeDriverCode(db, &driver)
	if err != nil {
		return "", err
	}

	res := s.dispatcher.Send(driver.Email, driver.Phone, "Your login code", loginCodeMessage(code))
	s.logAttempt(models.SessionDriver, models.AttemptRequestCode, phone, &driver.ID, true, "", meta)

	switch {
	case res.SMSDelivered && res.EmailDelivered:
		return "Login code sent via SMS and email", nil
	case res.SMSDelivered:
		return "Login code sent via SMS", nil
	case res.EmailDelivered:
		return "Login code sent to your email", nil
	default:
		return "Login code generated but could not be delivered", nil
	}
}

// IssueDriverCode stores a fresh login code for the driver and returns it in
// the clear so the caller can embed it in a composed message, e.g. the invite
// welcome. The code follows the same lifecycle as a requested one: single
// use, 10 minute expiry, replaces any earlier code.
func (s *LoginCodeService) IssueDriverCode(driverID uint) (string, error) {
	db := s.db()
	if db == nil {
		return "", ErrStoreUnavailable
	}

	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDriverNotFound
		}
		return "", err
	}

	return s.storeDriverCode(db, &driver)
}

// storeDriverCode generates a code, persists its bcrypt hash and expiry on
// the driver row, and returns the plain code.
func (s *LoginCodeService) storeDriverCode(db *gorm.DB, driver *models.Driver) (string, error) {
	code, err := generateLoginCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(loginCodeTTL)
	updates := map[string]interface{}{
		"login_code_hash":       string(hash),
		"login_code_expires_at": &expiresAt,
	}
	if err := db.Model(driver).Updates(updates).Error; err != nil {
		return "", err
	}
	return code, nil
}

// VerifyDriverCode checks a driver's login code. On success the stored code
// is invalidated immediately (single use) and pending drivers become active.
// Failed attempts still record the resolved driver id for audit correlation.
func (s *LoginCodeService) VerifyDriverCode(phone, code string, meta RequestMeta) (*models.Driver, error) {
	db := s.db()
	if db == nil {
		return nil, ErrStoreUnavailable
	}

	var driver models.Driver
	if err := db.Where("phone = ?", phone).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logAttempt(models.SessionDriver, models.AttemptVerifyCode, phone, nil, false, "phone not registered", meta)
			return nil, ErrPhoneNotRegistered
		}
		return nil, err
	}

	if driver.LoginCodeHash == "" {
		s.logAttempt(models.SessionDriver, models.AttemptVerifyCode, phone, &driver.ID, false, "no code requested", meta)
		return nil, ErrInvalidLoginCode
	}
	if driver.LoginCodeExpiresAt == nil || s.now().After(*driver.LoginCodeExpiresAt) {
		s.logAttempt(models.SessionDriver, models.AttemptVerifyCode, phone, &driver.ID, false, "code expired", meta)
		return nil, ErrInvalidLoginCode
	}
	if bcrypt.CompareHashAndPassword([]byte(driver.LoginCodeHash), []byte(code)) != nil {
		s.logAttempt(models.SessionDriver, models.AttemptVerifyCode, phone, &driver.ID, false, "wrong code", meta)
		return nil, ErrInvalidLoginCode
	}

	// Consume the code before anything else so it can never be replayed.
	updates := map[string]interface{}{
		"login_code_hash":       "",
		"login_code_expires_at": nil,
	}
	if driver.Status == models.DriverPending {
		updates["status"] = models.DriverActive
	}
	if err := db.Model(&driver).Updates(updates).Error; err != nil {
		return nil, err
	}

	driver.LoginCodeHash = ""
	driver.LoginCodeExpiresAt = nil
	if driver.Status == models.DriverPending {
		driver.Status = models.DriverActive
	}

	s.logAttempt(models.SessionDriver, models.AttemptVerifyCode, phone, &driver.ID, true, "", meta)
	return &driver, nil
}

func (s *LoginCodeService) logAttempt(kind models.SessionKind, action, identifier string, driverID *uint, success bool, reason string, meta RequestMeta) {
	db := s.db()
	if db == nil {
		logrus.WithFields(logrus.Fields{
			"principal":  kind,
			"identifier": identifier,
			"success":    success,
		}).Warn("login attempt not persisted, store unavailable")
		return
	}

	attempt := models.LoginAttempt{
		PrincipalType: kind,
		Action:        action,
		Identifier:    identifier,
		DriverID:      driverID,
		Success:       success,
		FailureReason: reason,
		IPAddress:     meta.IP,
		UserAgent:     meta.UserAgent,
	}
	if err := db.Create(&attempt).Error; err != nil {
		logrus.WithError(err).Error("could not persist login attempt")
	}
}

func loginCodeMessage(code string) string {
	return fmt.Sprintf("Your login code is %s. It expires in 10 minutes.", code)
}

// generateLoginCode returns a 6-digit code uniform over 100000-999999.
func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
