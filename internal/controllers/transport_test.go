package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"route_scheduler/internal/config"
	"route_scheduler/internal/middleware"
	"route_scheduler/internal/models"
	"route_scheduler/internal/notify"
	"route_scheduler/internal/services"
)

var (
	transportDBCounter int64
	transportCode      = regexp.MustCompile(`\d{6}`)
)

const transportAdminEmail = "ops@example.com"

type captureEmail struct {
	to, subject, body string
}

func (f *captureEmail) Send(to, subject, body string) bool {
	f.to, f.subject, f.body = to, subject, body
	return true
}

type captureSMS struct {
	to, body string
}

func (f *captureSMS) Send(to, body string) bool {
	f.to, f.body = to, body
	return true
}

type transportFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	sessions *services.SessionService
	codes    *services.LoginCodeService
	email    *captureEmail
	sms      *captureSMS
}

// newTransportFixture wires the handlers against an in-memory store the same
// way main does, with the session guards mounted on the protected procedures.
func newTransportFixture(t *testing.T) *transportFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := fmt.Sprintf("file:transport%d?mode=memory&cache=shared", atomic.AddInt64(&transportDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Driver{},
		&models.Van{},
		&models.RouteAssignment{},
		&models.AvailabilityRecord{},
		&models.Session{},
		&models.LoginAttempt{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })

	email := &captureEmail{}
	sms := &captureSMS{}
	dispatcher := notify.NewDispatcher(email, sms)
	sessions := services.NewSessionService(config.GetDB)
	codes := services.NewLoginCodeService(config.GetDB, dispatcher, transportAdminEmail)
	Init(Deps{
		Sessions:     sessions,
		LoginCodes:   codes,
		Availability: services.NewAvailabilityService(config.GetDB),
		Assignments:  services.NewAssignmentService(config.GetDB, dispatcher),
		Notify:       dispatcher,
	})

	adminOnly := middleware.RequireAdmin(sessions)
	driverOnly := middleware.RequireDriver(sessions)

	r := gin.New()
	r.POST("/rpc/adminAuth.verifyCode", AdminVerifyCode)
	r.POST("/rpc/adminAuth.me", adminOnly, AdminMe)
	r.POST("/rpc/adminAuth.logout", AdminLogout)
	r.POST("/rpc/driverAuth.verifyCode", DriverVerifyCode)
	r.POST("/rpc/driverAuth.me", driverOnly, DriverMe)
	r.POST("/rpc/driverAuth.logout", DriverLogout)
	r.POST("/rpc/drivers.invite", adminOnly, InviteDriver)
	r.POST("/rpc/routes.list", ListRoutes)
	r.POST("/rpc/securityLogs.list", ListSecurityLogs)
	r.POST("/rpc/driverPortal.myRoutes", driverOnly, MyRoutes)
	r.POST("/rpc/driverPortal.saveAvailabilityBatch", driverOnly, SaveAvailabilityBatch)

	return &transportFixture{
		db:       db,
		router:   r,
		sessions: sessions,
		codes:    codes,
		email:    email,
		sms:      sms,
	}
}

func (f *transportFixture) post(t *testing.T, path string, body interface{}, mod func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mod != nil {
		mod(req)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedPortalDriver(t *testing.T, db *gorm.DB, phone string) *models.Driver {
	t.Helper()

	driver := models.Driver{Name: "Ann", Phone: phone, Status: models.DriverActive}
	require.NoError(t, db.Create(&driver).Error)
	return &driver
}

func TestAdminSessionCookieLifecycle(t *testing.T) {
	f := newTransportFixture(t)

	_, err := f.codes.RequestAdminCode(transportAdminEmail, services.RequestMeta{})
	require.NoError(t, err)
	code := transportCode.FindString(f.email.body)
	require.Len(t, code, 6)

	w := f.post(t, "/rpc/adminAuth.verifyCode", gin.H{"email": transportAdminEmail, "code": code}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w, middleware.AdminSessionCookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, int(services.AdminSessionTTL.Seconds()), cookie.MaxAge)

	withCookie := func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: cookie.Value})
	}

	w = f.post(t, "/rpc/adminAuth.me", gin.H{}, withCookie)
	require.Equal(t, http.StatusOK, w.Code)
	admin := decodeBody(t, w)["admin"].(map[string]interface{})
	require.Equal(t, transportAdminEmail, admin["email"])

	// Logout clears the cookie and kills the session server-side.
	w = f.post(t, "/rpc/adminAuth.logout", gin.H{}, withCookie)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(t, w, middleware.AdminSessionCookie)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	w = f.post(t, "/rpc/adminAuth.me", gin.H{}, withCookie)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminBearerHeaderFallback(t *testing.T) {
	f := newTransportFixture(t)

	session, err := f.sessions.IssueAdmin(transportAdminEmail)
	require.NoError(t, err)

	// No cookie; the Authorization header alone authenticates.
	w := f.post(t, "/rpc/adminAuth.me", gin.H{}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.post(t, "/rpc/adminAuth.me", gin.H{}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDriverSessionCookieAndHeader(t *testing.T) {
	f := newTransportFixture(t)
	driver := seedPortalDriver(t, f.db, "+15550001")

	_, err := f.codes.RequestDriverCode(driver.Phone, services.RequestMeta{})
	require.NoError(t, err)
	code := transportCode.FindString(f.sms.body)

	w := f.post(t, "/rpc/driverAuth.verifyCode", gin.H{"phone": driver.Phone, "code": code}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w, middleware.DriverSessionCookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, int(services.DriverSessionTTL.Seconds()), cookie.MaxAge)

	// x-driver-token carries the same session for cookie-less clients.
	w = f.post(t, "/rpc/driverAuth.me", gin.H{}, func(req *http.Request) {
		req.Header.Set("x-driver-token", cookie.Value)
	})
	require.Equal(t, http.StatusOK, w.Code)

	// A driver session never passes the admin guard.
	w = f.post(t, "/rpc/adminAuth.me", gin.H{}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+cookie.Value)
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.post(t, "/rpc/driverAuth.logout", gin.H{}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.DriverSessionCookie, Value: cookie.Value})
	})
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(t, w, middleware.DriverSessionCookie)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestInviteSendsLoginCode(t *testing.T) {
	f := newTransportFixture(t)
	admin, err := f.sessions.IssueAdmin(transportAdminEmail)
	require.NoError(t, err)

	w := f.post(t, "/rpc/drivers.invite", gin.H{"name": "Gil", "phone": "+15550100"}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+admin.Token)
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The welcome message carries a usable login code. The extraction is
	// anchored because the body also contains the driver's phone digits.
	require.Contains(t, f.sms.body, "added to the delivery schedule")
	match := regexp.MustCompile(`login code is (\d{6})`).FindStringSubmatch(f.sms.body)
	require.Len(t, match, 2)
	code := match[1]
	require.Len(t, code, 6)

	verified, err := f.codes.VerifyDriverCode("+15550100", code, services.RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, "Gil", verified.Name)
}

func TestOptionalInputsAcceptEmptyBody(t *testing.T) {
	f := newTransportFixture(t)
	driver := seedPortalDriver(t, f.db, "+15550002")
	session, err := f.sessions.IssueDriver(driver.ID)
	require.NoError(t, err)

	w := f.post(t, "/rpc/routes.list", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.post(t, "/rpc/securityLogs.list", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.post(t, "/rpc/driverPortal.myRoutes", nil, func(req *http.Request) {
		req.Header.Set("x-driver-token", session.Token)
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAvailabilityBatchReportsPartialSave(t *testing.T) {
	f := newTransportFixture(t)
	driver := seedPortalDriver(t, f.db, "+15550003")
	session, err := f.sessions.IssueDriver(driver.ID)
	require.NoError(t, err)

	w := f.post(t, "/rpc/driverPortal.saveAvailabilityBatch", gin.H{
		"entries": []gin.H{
			{"date": "2025-03-10", "is_available": true},
			{"date": "10/03/2025", "is_available": true},
			{"date": "2025-03-12", "is_available": true},
		},
	}, func(req *http.Request) {
		req.Header.Set("x-driver-token", session.Token)
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Upserts before the bad entry stay applied and are reported.
	body := decodeBody(t, w)
	require.Equal(t, services.ErrInvalidDate.Error(), body["error"])
	require.EqualValues(t, 1, body["saved"])

	var count int64
	require.NoError(t, f.db.Model(&models.AvailabilityRecord{}).
		Where("driver_id = ?", driver.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
