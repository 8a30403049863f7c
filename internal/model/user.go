package model

import "time"

// User is the account record returned by the auth service
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// DisplayName returns "First Last", falling back to the email
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both signup and login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Session is the authenticated identity held by the client
type Session struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"-"`
}

// NewSession builds a session from a successful auth response
func NewSession(resp *AuthResponse) Session {
	if resp == nil || resp.User == nil {
		return Session{}
	}
	return Session{
		UserID:    resp.User.ID,
		FirstName: resp.User.FirstName,
		LastName:  resp.User.LastName,
		Email:     resp.User.Email,
		Token:     resp.Token,
	}
}

// User returns the identity part of the session as a User record
func (s Session) User() User {
	return User{
		ID:        s.UserID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}

// Valid reports whether the session carries both an identity and a token
func (s Session) Valid() bool {
	return s.UserID != "" && s.Token != ""
}
