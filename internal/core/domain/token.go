package domain

import "time"

// Identity is the profile snapshot embedded in a signed token. It is copied
// from User at mint time and is not refreshed until the next login.
type Identity struct {
	UserID    uint      `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Image     string    `json:"image"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IdentityOf snapshots u.
func IdentityOf(u *User) Identity {
	return Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Username:  u.Username,
		Address:   u.Address,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Image:     u.Image,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// IssuedToken is a freshly minted token and the instant it stops verifying.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenFailure classifies why a token did not verify.
type TokenFailure string

const (
	TokenExpired      TokenFailure = "expired"
	TokenMalformed    TokenFailure = "malformed"
	TokenBadSignature TokenFailure = "bad_signature"
)

// TokenError reports a verification failure. It unwraps to ErrUnauthenticated.
type TokenError struct {
	Reason TokenFailure
}

func (e *TokenError) Error() string {
	switch e.Reason {
	case TokenExpired:
		return "Token has expired."
	default:
		return "Token is not valid."
	}
}

func (e *TokenError) Unwrap() error { return ErrUnauthenticated }
