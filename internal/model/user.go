package model

import "time"

// Identity is the authenticated user's profile as returned by the blog API.
type Identity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Designation string    `json:"designation,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsZero reports whether the identity carries no user id.
func (i Identity) IsZero() bool {
	return i.ID == ""
}

// Owns reports whether i is the author. A zero identity owns nothing.
func (i Identity) Owns(author Identity) bool {
	return !i.IsZero() && i.ID == author.ID
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Designation string `json:"designation,omitempty"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpResponse is the envelope returned by POST /auth/signup.
type SignUpResponse struct {
	Message string   `json:"message"`
	Data    Identity `json:"data"`
}

// AuthResponse is the envelope returned by POST /auth/signin.
type AuthResponse struct {
	Data  Identity `json:"data"`
	Token string   `json:"token"`
}

// MessageResponse is the envelope returned by delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
