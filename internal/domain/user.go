package domain

import (
	"strings"
	"time"
)

// AssetSlot names one of the two remote binary references a user owns.
type AssetSlot string

const (
	SlotAvatar AssetSlot = "avatar"
	SlotCover  AssetSlot = "cover"
)

func (s AssetSlot) Valid() bool {
	return s == SlotAvatar || s == SlotCover
}

// User is the aggregate root owned by the credential store.
// PasswordHash and RefreshToken never leave the service boundary;
// every read path goes through Public().
type User struct {
	ID           string
	Username     string // stored lower-cased
	Email        string // stored lower-cased
	FullName     string
	PasswordHash string
	RefreshToken string // current refresh token; empty = no active rotated session
	AvatarURL    string // required once the account exists
	CoverURL     string // optional
	CreatedAt    time.Time
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatar"`
	CoverURL  string    `json:"coverImage,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the credential fields. This is the only sanctioned way to
// expose a User outside the application core.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt,
	}
}

// AssetURL returns the stored URL for the given slot.
func (u User) AssetURL(slot AssetSlot) string {
	if slot == SlotAvatar {
		return u.AvatarURL
	}
	return u.CoverURL
}

// NormalizeIdentifier lower-cases and trims a username or email used for lookup.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
