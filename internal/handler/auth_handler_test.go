package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-dashboard-api/internal/middleware"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

type fakeAuthSrv struct {
	otpErr     error
	verifyReq  models.VerifyOTPRequest
	verifyErr  error
	refreshReq models.RefreshTokenRequest
	loggedOut  models.Session
	profile    *models.Profile
	profileErr error
}

func (f *fakeAuthSrv) RequestOTP(_ context.Context, req models.OTPRequest) (*models.OTPResponse, error) {
	if f.otpErr != nil {
		return nil, f.otpErr
	}
	return &models.OTPResponse{Email: req.Email, ExpiresAt: time.Date(2025, 7, 1, 10, 10, 0, 0, time.UTC)}, nil
}

func (f *fakeAuthSrv) VerifyOTP(_ context.Context, req models.VerifyOTPRequest) (*models.LoginResponse, error) {
	f.verifyReq = req
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", Session: models.Session{Email: req.Email}}, nil
}

func (f *fakeAuthSrv) Refresh(_ context.Context, req models.RefreshTokenRequest) (*models.LoginResponse, error) {
	f.refreshReq = req
	return &models.LoginResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (f *fakeAuthSrv) Logout(_ context.Context, session models.Session) error {
	f.loggedOut = session
	return nil
}

func (f *fakeAuthSrv) Profile(context.Context, models.Session) (*models.Profile, error) {
	return f.profile, f.profileErr
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("User-Agent", "dashboard-test")
	return c, rec
}

func TestAuthHandlerRequestOTP(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})
	c, rec := newJSONContext(http.MethodPost, "/auth/otp", `{"email":"e1@example.com"}`)

	handler.RequestOTP(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "e1@example.com", envelope.Data["email"])
	assert.NotContains(t, envelope.Data, "code")
}

func TestAuthHandlerRequestOTPBadBody(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})
	c, rec := newJSONContext(http.MethodPost, "/auth/otp", `{`)

	handler.RequestOTP(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerRequestOTPThrottled(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{otpErr: appErrors.ErrOTPThrottled})
	c, rec := newJSONContext(http.MethodPost, "/auth/otp", `{"email":"e1@example.com"}`)

	handler.RequestOTP(c)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "OTP_THROTTLED", envelope.Error["code"])
}

func TestAuthHandlerVerifyCapturesClient(t *testing.T) {
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)
	c, rec := newJSONContext(http.MethodPost, "/auth/verify", `{"email":"e1@example.com","code":"123456"}`)

	handler.VerifyOTP(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123456", srv.verifyReq.Code)
	assert.Equal(t, "dashboard-test", srv.verifyReq.UserAgent)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "access", envelope.Data["access_token"])
}

func TestAuthHandlerVerifyInvalidCode(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{verifyErr: appErrors.ErrOTPInvalid})
	c, rec := newJSONContext(http.MethodPost, "/auth/verify", `{"email":"e1@example.com","code":"000000"}`)

	handler.VerifyOTP(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerRefresh(t *testing.T) {
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)
	c, rec := newJSONContext(http.MethodPost, "/auth/refresh", `{"refresh_token":"abc"}`)

	handler.Refresh(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", srv.refreshReq.RefreshToken)
}

func TestAuthHandlerLogout(t *testing.T) {
	srv := &fakeAuthSrv{}
	handler := NewAuthHandler(srv)
	c, rec := newJSONContext(http.MethodPost, "/auth/logout", "")
	c.Set(middleware.ContextUserKey, zmClaims)

	handler.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, zmClaims.Email, srv.loggedOut.Email)
}

func TestAuthHandlerSession(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})
	c, rec := newHandlerContext("/auth/session", zmClaims)

	handler.Session(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, string(models.RoleZonalManager), envelope.Data["role"])
}

func TestAuthHandlerProfile(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{profile: &models.Profile{
		Session: models.Session{Email: zmClaims.Email, Role: models.RoleZonalManager},
		Team:    "Sales",
	}})
	c, rec := newHandlerContext("/profile", zmClaims)

	handler.Profile(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Sales", envelope.Data["team"])
}

func TestAuthHandlerProfileWithoutSession(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})
	c, rec := newHandlerContext("/profile", nil)

	handler.Profile(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
