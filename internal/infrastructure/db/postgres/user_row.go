package postgres

import "time"

// userRow mirrors the users table layout.
type userRow struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	RefreshToken string
	AvatarURL    string
	CoverURL     string
	CreatedAt    time.Time
}

const userColumns = `id, username, email, full_name, password_hash, refresh_token, avatar_url, cover_url, created_at`
