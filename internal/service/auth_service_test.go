package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/mailer"
)

type fakeCodeStore struct {
	codes      []*models.VerificationCode
	lastIssued time.Time
	createErr  error
}

func (f *fakeCodeStore) Create(_ context.Context, code *models.VerificationCode) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.codes {
		if existing.Email == code.Email {
			existing.Used = true
		}
	}
	f.codes = append(f.codes, code)
	f.lastIssued = code.CreatedAt
	return nil
}

func (f *fakeCodeStore) LatestUnused(_ context.Context, email string) (*models.VerificationCode, error) {
	for i := len(f.codes) - 1; i >= 0; i-- {
		if f.codes[i].Email == email && !f.codes[i].Used {
			return f.codes[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCodeStore) LastIssuedAt(context.Context, string) (time.Time, error) {
	return f.lastIssued, nil
}

func (f *fakeCodeStore) IncrementAttempts(_ context.Context, id string) (int, error) {
	for _, code := range f.codes {
		if code.ID == id {
			code.Attempts++
			return code.Attempts, nil
		}
	}
	return 0, sql.ErrNoRows
}

func (f *fakeCodeStore) MarkUsed(_ context.Context, id string) error {
	for _, code := range f.codes {
		if code.ID == id {
			code.Used = true
		}
	}
	return nil
}

type fakeTokenStore struct {
	tokens       map[string]*models.RefreshToken
	revokedEmail string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenStore) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeTokenStore) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := f.tokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokenStore) RevokeRefreshToken(_ context.Context, id string, ts time.Time) error {
	for _, token := range f.tokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &ts
		}
	}
	return nil
}

func (f *fakeTokenStore) RevokeByEmail(_ context.Context, email string, ts time.Time) error {
	f.revokedEmail = email
	for _, token := range f.tokens {
		if token.Email == email {
			token.Revoked = true
			token.RevokedAt = &ts
		}
	}
	return nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeViewerCache struct {
	cleared []string
}

func (f *fakeViewerCache) ClearViewer(_ context.Context, viewer string) (int64, error) {
	f.cleared = append(f.cleared, viewer)
	return 1, nil
}

type recordingListener struct {
	mu       sync.Mutex
	sessions []models.Session
}

func (r *recordingListener) LoggedIn(session models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, session)
}

type authFixture struct {
	svc      *AuthService
	roster   *fakeRoster
	codes    *fakeCodeStore
	tokens   *fakeTokenStore
	mail     *fakeMailer
	cache    *fakeViewerCache
	listener *recordingListener
	now      time.Time
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		roster:   newRoster(),
		codes:    &fakeCodeStore{},
		tokens:   newFakeTokenStore(),
		mail:     &fakeMailer{},
		cache:    &fakeViewerCache{},
		listener: &recordingListener{},
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(AuthServiceParams{
		Directory: newDirectory(f.roster),
		Codes:     f.codes,
		Sessions:  f.tokens,
		Mailer:    f.mail,
		Cache:     f.cache,
		Listener:  f.listener,
		Config: AuthConfig{
			AccessTokenSecret:  "secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
			Issuer:             "sales-dashboard",
			OTPLength:          6,
			OTPTTL:             10 * time.Minute,
			OTPMaxAttempts:     3,
			OTPResendInterval:  30 * time.Second,
			LoginTeams:         []string{models.TeamSales, models.TeamProgram},
		},
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (f *authFixture) requestCode(t *testing.T, email string) string {
	t.Helper()
	_, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: email})
	require.NoError(t, err)
	require.NotEmpty(t, f.mail.sent)
	code := codePattern.FindString(f.mail.sent[len(f.mail.sent)-1].Text)
	require.Len(t, code, 6)
	return code
}

func (f *authFixture) login(t *testing.T, email string) *models.LoginResponse {
	t.Helper()
	code := f.requestCode(t, email)
	f.now = f.now.Add(time.Minute)
	resp, err := f.svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{Email: email, Code: code})
	require.NoError(t, err)
	return resp
}

func TestRequestOTPStoresHashAndMails(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: "ASHA@acme.test"})
	require.NoError(t, err)
	assert.Equal(t, e1Email, resp.Email)
	assert.Equal(t, f.now.Add(10*time.Minute), resp.ExpiresAt)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, e1Email, f.mail.sent[0].To)
	code := codePattern.FindString(f.mail.sent[0].Text)
	require.Len(t, f.codes.codes, 1)
	stored := f.codes.codes[0]
	assert.NotEqual(t, code, stored.CodeHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(code)))
}

func TestRequestOTPRejectsIneligibleUsers(t *testing.T) {
	f := newAuthFixture()

	for _, email := range []string{"stranger@acme.test", goneEmail} {
		_, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: email})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrUserNotFound.Code, appErrors.FromError(err).Code, email)
	}

	_, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.mail.sent)
}

func TestRequestOTPRejectsTeamsOutsideLogin(t *testing.T) {
	f := newAuthFixture()
	f.roster.employees = append(f.roster.employees, models.Employee{Email: "ops@acme.test", Team: "Operations", Status: models.StatusActive})

	_, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: "ops@acme.test"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUserNotFound.Code, appErrors.FromError(err).Code)
}

func TestRequestOTPThrottlesResend(t *testing.T) {
	f := newAuthFixture()
	f.requestCode(t, e1Email)

	f.now = f.now.Add(10 * time.Second)
	_, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: e1Email})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOTPThrottled.Code, appErrors.FromError(err).Code)

	f.now = f.now.Add(time.Minute)
	f.requestCode(t, e1Email)
	assert.True(t, f.codes.codes[0].Used)
}

func TestRequestOTPMailFailure(t *testing.T) {
	f := newAuthFixture()
	f.mail.err = errors.New("ses throttled")

	_, err := f.svc.RequestOTP(context.Background(), models.OTPRequest{Email: e1Email})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMailDelivery.Code, appErrors.FromError(err).Code)
}

func TestVerifyOTPIssuesSessionWithDerivedRole(t *testing.T) {
	f := newAuthFixture()

	resp := f.login(t, zmEmail)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, models.Session{Email: zmEmail, Name: "Zara", Role: models.RoleZonalManager}, resp.Session)
	assert.True(t, f.codes.codes[0].Used)
	assert.Equal(t, []models.Session{resp.Session}, f.listener.sessions)

	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleZonalManager, claims.Role)
	assert.Equal(t, zmEmail, claims.Email)
}

func TestVerifyOTPWrongCodeCountsAttempts(t *testing.T) {
	f := newAuthFixture()
	code := f.requestCode(t, e1Email)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < 2; i++ {
		_, err := f.svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{Email: e1Email, Code: wrong})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrOTPInvalid.Code, appErrors.FromError(err).Code)
	}
	_, err := f.svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{Email: e1Email, Code: wrong})
	assert.Equal(t, appErrors.ErrOTPAttempts.Code, appErrors.FromError(err).Code)

	_, err = f.svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{Email: e1Email, Code: code})
	assert.Equal(t, appErrors.ErrOTPAttempts.Code, appErrors.FromError(err).Code)
}

func TestVerifyOTPExpiredAndMissing(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{Email: e1Email, Code: "123456"})
	assert.Equal(t, appErrors.ErrOTPInvalid.Code, appErrors.FromError(err).Code)

	code := f.requestCode(t, e1Email)
	f.now = f.now.Add(11 * time.Minute)
	_, err = f.svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{Email: e1Email, Code: code})
	assert.Equal(t, appErrors.ErrOTPExpired.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesAndRederivesRole(t *testing.T) {
	f := newAuthFixture()
	resp := f.login(t, e3Email)
	assert.Equal(t, models.RoleEmployee, resp.Session.Role)

	f.roster.employees = append(f.roster.employees, sales("new@acme.test", "New", e3Email, "Chitra", zmEmail, "Zara", orderLOB))

	refreshed, err := f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, models.RoleReportingManager, refreshed.Session.Role)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)
	assert.True(t, f.tokens.tokens[resp.RefreshToken].Revoked)

	_, err = f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRefreshRejectsDeactivatedViewer(t *testing.T) {
	f := newAuthFixture()
	resp := f.login(t, e1Email)
	for i := range f.roster.employees {
		if f.roster.employees[i].Email == e1Email {
			f.roster.employees[i].Status = models.StatusInactive
		}
	}

	_, err := f.svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRevokesAndClearsCache(t *testing.T) {
	f := newAuthFixture()
	resp := f.login(t, rm1Email)

	require.NoError(t, f.svc.Logout(context.Background(), resp.Session))
	assert.Equal(t, rm1Email, f.tokens.revokedEmail)
	assert.True(t, f.tokens.tokens[resp.RefreshToken].Revoked)
	assert.Equal(t, []string{rm1Email}, f.cache.cleared)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	f := newAuthFixture()
	resp := f.login(t, e1Email)

	_, err := f.svc.ValidateToken(resp.AccessToken + "x")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	f.now = f.now.Add(time.Hour)
	_, err = f.svc.ValidateToken(resp.AccessToken)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestProfile(t *testing.T) {
	f := newAuthFixture()

	profile, err := f.svc.Profile(context.Background(), models.Session{Email: e1Email, Name: "Asha", Role: models.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, rm1Email, profile.ReportingManagerEmail)
	assert.Equal(t, "Zara", profile.ZonalManager)
	assert.Equal(t, models.RoleEmployee, profile.Role)

	_, err = f.svc.Profile(context.Background(), models.Session{Email: "stranger@acme.test"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
