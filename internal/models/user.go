package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

const PasswordResetTokenTTL = 10 * time.Minute

type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserName             string             `json:"user_name" bson:"user_name" validate:"required,min=2,max=50"`
	Email                string             `json:"email" bson:"email" validate:"required,email"`
	Photo                string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role                 Role               `json:"role" bson:"role"`
	Password             string             `json:"-" bson:"password"`
	PasswordChangedAt    *time.Time         `json:"-" bson:"password_changed_at,omitempty"`
	PasswordResetToken   string             `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpires *time.Time         `json:"-" bson:"password_reset_expires,omitempty"`
	Active               bool               `json:"-" bson:"active"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasChangedPasswordAfter reports whether the password was changed at or after
// the given token issue time. Tokens minted before a password change are stale.
func (u *User) HasChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return !u.PasswordChangedAt.Before(issuedAt)
}

// HasAnyRole reports whether the user's role is in the allowed set.
func (u *User) HasAnyRole(allowed ...Role) bool {
	for _, role := range allowed {
		if u.Role == role {
			return true
		}
	}
	return false
}

// NewPasswordResetToken generates a random reset token, stores its SHA-256
// hash and expiry on the user, and returns the raw token for out-of-band
// delivery. Only the hash ever reaches the database.
func (u *User) NewPasswordResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	token := hex.EncodeToString(raw)
	expires := time.Now().Add(PasswordResetTokenTTL)

	u.PasswordResetToken = HashResetToken(token)
	u.PasswordResetExpires = &expires

	return token, nil
}

// HashResetToken maps a raw reset token to the one-way hash stored in the
// database.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
