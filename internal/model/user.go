package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string    `json:"id"`
	GoogleID     string    `json:"google_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`
	IsMock       bool      `json:"is_mock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser(googleID, email, name, accessToken, refreshToken string, tokenExpiry time.Time) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New().String(),
		GoogleID:     googleID,
		Email:        email,
		Name:         name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenExpiry:  tokenExpiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewDemoUser creates a mock user with no credential material. Demo users
// are served generated data and share one cache partition.
func NewDemoUser() *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		GoogleID:  "demo_" + uuid.New().String(),
		Email:     "demo@maildash.local",
		Name:      "Demo User",
		IsMock:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
