package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OTPRequest asks for a verification code to be mailed to the email.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// OTPResponse acknowledges an issued code without revealing it.
type OTPResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyOTPRequest exchanges a mailed code for a session.
type VerifyOTPRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code" validate:"required,numeric,min=4,max=10"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// Session is the viewer context carried by every authenticated request.
type Session struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  ViewerRole `json:"role"`
}

// LoginResponse returns the issued tokens and the session they carry.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	Session      Session   `json:"session"`
	IssuedAt     time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  ViewerRole `json:"role"`
	jwt.RegisteredClaims
}

// Session returns the viewer context encoded in the claims.
func (c *JWTClaims) Session() Session {
	if c == nil {
		return Session{}
	}
	return Session{Email: c.Email, Name: c.Name, Role: c.Role}
}

// Profile is the viewer's directory record as shown on the profile page.
type Profile struct {
	Session
	Team                  string `json:"team"`
	Status                string `json:"status"`
	LineOfBusiness        string `json:"line_of_business"`
	ReportingManager      string `json:"reporting_manager"`
	ReportingManagerEmail string `json:"reporting_manager_email"`
	ZonalManager          string `json:"zonal_manager"`
	ZonalManagerEmail     string `json:"zonal_manager_email"`
}
