package identity

import "time"

// LoginInput contains the submitted login form
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginResult contains the session token of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// UserInfo contains the user fields shown in the page header
type UserInfo struct {
	ID       int64
	Username string
	IsStaff  bool
}

// CreateUserInput contains the fields of a new account
type CreateUserInput struct {
	Username string
	Password string
	IsStaff  bool
}
