package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds the teacher's name and id number.
type LoginRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	IDNumber string `json:"id_number" validate:"required,alphanum,min=3,max=20"`
}

// LoginResponse returns the issued session token and the teacher.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Teacher     Teacher   `json:"teacher"`
	IssuedAt    time.Time `json:"issued_at"`
}

// SessionClaims is the JWT payload identifying the current teacher.
type SessionClaims struct {
	TeacherID    string  `json:"teacher_id"`
	FullName     string  `json:"full_name"`
	IDNumber     string  `json:"id_number"`
	Organization *string `json:"organization,omitempty"`
	jwt.RegisteredClaims
}

// Teacher rebuilds the teacher identity carried by the claims.
func (c *SessionClaims) Teacher() Teacher {
	return Teacher{
		ID:           c.TeacherID,
		FullName:     c.FullName,
		IDNumber:     c.IDNumber,
		Organization: c.Organization,
	}
}
