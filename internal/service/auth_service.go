package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/mailer"
)

type authDirectory interface {
	Employee(ctx context.Context, email string) (*models.Employee, error)
	Snapshot(ctx context.Context, email string) (models.DirectorySnapshot, error)
}

type verificationCodeStore interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	LatestUnused(ctx context.Context, email string) (*models.VerificationCode, error)
	LastIssuedAt(ctx context.Context, email string) (time.Time, error)
	IncrementAttempts(ctx context.Context, id string) (int, error)
	MarkUsed(ctx context.Context, id string) error
}

type refreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	RevokeByEmail(ctx context.Context, email string, revokedAt time.Time) error
}

type viewerCache interface {
	ClearViewer(ctx context.Context, viewer string) (int64, error)
}

type loginListener interface {
	LoggedIn(session models.Session)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
	OTPLength          int
	OTPTTL             time.Duration
	OTPMaxAttempts     int
	OTPResendInterval  time.Duration
	LoginTeams         []string
	MailSubject        string
}

// AuthServiceParams groups dependencies for the AuthService.
type AuthServiceParams struct {
	Directory authDirectory
	Codes     verificationCodeStore
	Sessions  refreshTokenStore
	Mailer    mailer.Mailer
	Cache     viewerCache
	Listener  loginListener
	Metrics   *MetricsService
	Validator *validator.Validate
	Config    AuthConfig
	Logger    *zap.Logger
}

// AuthService issues passcodes and sessions. The viewer role is re-derived from the directory on
// every login and refresh.
type AuthService struct {
	directory authDirectory
	codes     verificationCodeStore
	sessions  refreshTokenStore
	mailer    mailer.Mailer
	cache     viewerCache
	listener  loginListener
	metrics   *MetricsService
	validator *validator.Validate
	config    AuthConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(params AuthServiceParams) *AuthService {
	cfg := params.Config
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = 6
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.OTPMaxAttempts <= 0 {
		cfg.OTPMaxAttempts = 3
	}
	if cfg.MailSubject == "" {
		cfg.MailSubject = "Your sales dashboard login code"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		directory: params.Directory,
		codes:     params.Codes,
		sessions:  params.Sessions,
		mailer:    params.Mailer,
		cache:     params.Cache,
		listener:  params.Listener,
		metrics:   params.Metrics,
		validator: validate,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestOTP mails a fresh verification code to an active employee of a login team.
func (s *AuthService) RequestOTP(ctx context.Context, req models.OTPRequest) (*models.OTPResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid email")
	}
	employee, err := s.loginEmployee(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	last, err := s.codes.LastIssuedAt(ctx, employee.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check previous code")
	}
	if !last.IsZero() && now.Sub(last) < s.config.OTPResendInterval {
		return nil, appErrors.ErrOTPThrottled
	}

	code, err := generateNumericCode(s.config.OTPLength)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash code")
	}
	record := &models.VerificationCode{
		ID:        uuid.NewString(),
		Email:     employee.Email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.config.OTPTTL),
		CreatedAt: now,
	}
	if err := s.codes.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store code")
	}

	if err := s.mailer.Send(ctx, s.otpMessage(employee, code)); err != nil {
		s.metrics.RecordOTPDelivery("failed")
		s.logger.Warn("verification code delivery failed", zap.String("email", employee.Email), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrMailDelivery.Code, appErrors.ErrMailDelivery.Status, appErrors.ErrMailDelivery.Message)
	}
	s.metrics.RecordOTPDelivery("sent")
	return &models.OTPResponse{Email: employee.Email, ExpiresAt: record.ExpiresAt}, nil
}

// VerifyOTP checks the latest code and opens a session.
func (s *AuthService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}
	employee, err := s.loginEmployee(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.LatestUnused(ctx, employee.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrOTPInvalid, "no active verification code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load code")
	}
	if s.now().UTC().After(code.ExpiresAt) {
		return nil, appErrors.ErrOTPExpired
	}
	if code.Attempts >= s.config.OTPMaxAttempts {
		return nil, appErrors.ErrOTPAttempts
	}
	if err := bcrypt.CompareHashAndPassword([]byte(code.CodeHash), []byte(strings.TrimSpace(req.Code))); err != nil {
		attempts, incErr := s.codes.IncrementAttempts(ctx, code.ID)
		if incErr != nil {
			s.logger.Warn("failed to record verification attempt", zap.Error(incErr))
		}
		if attempts >= s.config.OTPMaxAttempts {
			return nil, appErrors.ErrOTPAttempts
		}
		return nil, appErrors.ErrOTPInvalid
	}
	if err := s.codes.MarkUsed(ctx, code.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume code")
	}

	session, err := s.classify(ctx, employee)
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(ctx, session, req.IP, req.UserAgent)
	if err != nil {
		return nil, err
	}
	if s.listener != nil {
		s.listener.LoggedIn(session)
	}
	s.logger.Info("viewer logged in", zap.String("email", session.Email), zap.String("role", string(session.Role)))
	return resp, nil
}

// Refresh rotates a refresh token. The role is derived again so directory changes take effect.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}
	stored, err := s.sessions.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch refresh token")
	}
	now := s.now().UTC()
	if stored.Revoked || now.After(stored.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is expired or revoked")
	}

	employee, err := s.loginEmployee(ctx, stored.Email)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "viewer no longer eligible")
	}
	session, err := s.classify(ctx, employee)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.RevokeRefreshToken(ctx, stored.ID, now); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}
	return s.issue(ctx, session, req.IP, req.UserAgent)
}

// Logout revokes every refresh token of the viewer and drops their cached pages.
func (s *AuthService) Logout(ctx context.Context, session models.Session) error {
	if err := s.sessions.RevokeByEmail(ctx, session.Email, s.now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke sessions")
	}
	if s.cache != nil {
		if _, err := s.cache.ClearViewer(ctx, session.Email); err != nil {
			s.logger.Warn("failed to clear viewer cache on logout", zap.String("email", session.Email), zap.Error(err))
		}
	}
	return nil
}

// Profile returns the viewer's directory record.
func (s *AuthService) Profile(ctx context.Context, session models.Session) (*models.Profile, error) {
	employee, err := s.directory.Employee(ctx, session.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return &models.Profile{
		Session:               session,
		Team:                  employee.Team,
		Status:                employee.Status,
		LineOfBusiness:        employee.LineOfBusiness,
		ReportingManager:      employee.ReportingManager,
		ReportingManagerEmail: employee.ReportingManagerEmail,
		ZonalManager:          employee.ZonalManager,
		ZonalManagerEmail:     employee.ZonalManagerEmail,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.Email == "" || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// loginEmployee is the login pre-check: the email must belong to an active member of a login team.
func (s *AuthService) loginEmployee(ctx context.Context, email string) (*models.Employee, error) {
	employee, err := s.directory.Employee(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}
	if !employee.Active() || !s.loginTeam(employee.Team) {
		return nil, appErrors.ErrUserNotFound
	}
	return employee, nil
}

func (s *AuthService) loginTeam(team string) bool {
	if len(s.config.LoginTeams) == 0 {
		return true
	}
	for _, allowed := range s.config.LoginTeams {
		if strings.EqualFold(allowed, team) {
			return true
		}
	}
	return false
}

func (s *AuthService) classify(ctx context.Context, employee *models.Employee) (models.Session, error) {
	snapshot, err := s.directory.Snapshot(ctx, employee.Email)
	if err != nil {
		return models.Session{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load directory")
	}
	role, err := ClassifyRole(snapshot, employee.Email)
	if err != nil {
		s.logger.Warn("role classification failed", zap.String("email", employee.Email), zap.Error(err))
		return models.Session{}, err
	}
	return models.Session{Email: employee.Email, Name: employee.Name, Role: role}, nil
}

func (s *AuthService) issue(ctx context.Context, session models.Session, ip, userAgent string) (*models.LoginResponse, error) {
	issuedAt := s.now().UTC()
	accessToken, err := s.generateAccessToken(session, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	refreshValue, err := generateRefreshTokenString()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}
	refresh := &models.RefreshToken{
		ID:        uuid.NewString(),
		Email:     session.Email,
		Token:     refreshValue,
		ExpiresAt: issuedAt.Add(s.config.RefreshTokenExpiry),
		CreatedAt: issuedAt,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.sessions.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}
	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		Session:      session,
		IssuedAt:     issuedAt,
	}, nil
}

func (s *AuthService) generateAccessToken(session models.Session, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		Email: session.Email,
		Name:  session.Name,
		Role:  session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   session.Email,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) otpMessage(employee *models.Employee, code string) mailer.Message {
	minutes := int(s.config.OTPTTL.Minutes())
	name := employee.Name
	if name == "" {
		name = employee.Email
	}
	text := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n", name, code, minutes)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in %d minutes.</p>", name, code, minutes)
	return mailer.Message{To: employee.Email, Subject: s.config.MailSubject, Text: text, HTML: html}
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func generateRefreshTokenString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
