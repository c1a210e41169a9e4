package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

// UserMetadata is the free-form profile block the auth platform embeds in
// its access tokens at sign-up.
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	UserType  string `json:"user_type,omitempty"`
}

// AccessTokenClaims mirrors the platform's access token. The subject is the
// profile id.
type AccessTokenClaims struct {
	Email        string       `json:"email,omitempty"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// UserID parses the subject into a profile id.
func (c *AccessTokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Subject))
}

// DisplayName splits user metadata into first/last name.
func (c *AccessTokenClaims) DisplayName() (string, string) {
	first := strings.TrimSpace(c.UserMetadata.FirstName)
	last := strings.TrimSpace(c.UserMetadata.LastName)
	if first != "" || last != "" {
		return first, last
	}
	full := strings.Fields(c.UserMetadata.FullName)
	switch len(full) {
	case 0:
		return "", ""
	case 1:
		return full[0], ""
	default:
		return full[0], strings.Join(full[1:], " ")
	}
}

// UserType returns the declared user type, defaulting to student.
func (c *AccessTokenClaims) UserType() enums.UserType {
	if ut, err := enums.ParseUserType(c.UserMetadata.UserType); err == nil {
		return ut
	}
	return enums.UserTypeStudent
}

// AccessTokenPayload is used to mint tokens for local development and tests.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Email        string
	Role         string
	UserMetadata UserMetadata
}
