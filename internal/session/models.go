package session

import (
	"encoding/json"
	"time"
)

// User is one directory entry. PasswordDigest never holds the plaintext.
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	PasswordDigest string     `json:"passwordDigest"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	ProfilePhoto   string     `json:"profilePhoto,omitempty"`
}

// UnmarshalJSON also accepts directories written by older clients, which
// kept the digest under "password".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		Password string `json:"password"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.PasswordDigest == "" {
		u.PasswordDigest = aux.Password
	}
	return nil
}

// Session is the snapshot of the signed-in user. It carries no credential
// material.
type Session struct {
	UserID       string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	ProfilePhoto string     `json:"profilePhoto,omitempty"`
}

func (u User) snapshot() Session {
	return Session{
		UserID:       u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
		ProfilePhoto: u.ProfilePhoto,
	}
}

// Candidate is what a sign-up form submits.
type Candidate struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// Credentials is what a sign-in form submits.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
