package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/streamhive/account-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Username,
		&ur.Email,
		&ur.FullName,
		&ur.PasswordHash,
		&ur.RefreshToken,
		&ur.AvatarURL,
		&ur.CoverURL,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Username:     ur.Username,
		Email:        ur.Email,
		FullName:     ur.FullName,
		PasswordHash: ur.PasswordHash,
		RefreshToken: ur.RefreshToken,
		AvatarURL:    ur.AvatarURL,
		CoverURL:     ur.CoverURL,
		CreatedAt:    ur.CreatedAt,
	}
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (domain.User, error) {
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// ---------- account.UserRepo ----------

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`
	return r.getOne(ctx, q, id)
}

func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	identifier = domain.NormalizeIdentifier(identifier)
	if identifier == "" {
		return domain.User{}, domain.ErrMissingField("identifier")
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1;`
	return r.getOne(ctx, q, identifier)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = domain.NormalizeIdentifier(username)
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1;`
	return r.getOne(ctx, q, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeIdentifier(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`
	return r.getOne(ctx, q, email)
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = domain.NormalizeIdentifier(u.Username)
	u.Email = domain.NormalizeIdentifier(u.Email)
	switch {
	case u.ID == "":
		return domain.User{}, domain.ErrMissingField("id")
	case u.Username == "":
		return domain.User{}, domain.ErrMissingField("username")
	case u.Email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case u.PasswordHash == "":
		return domain.User{}, domain.ErrMissingField("password_hash")
	case u.AvatarURL == "":
		return domain.User{}, domain.ErrMissingField("avatar_url")
	}

	const q = `
INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, cover_url)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + userColumns + `;`

	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.AvatarURL, u.CoverURL,
	))
	if err != nil {
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate") || strings.Contains(low, "unique") {
			if strings.Contains(low, "email") {
				return domain.User{}, domain.ErrEmailAlreadyExists()
			}
			return domain.User{}, domain.ErrUsernameAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID, value string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `UPDATE users SET refresh_token = $2 WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, userID, value)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// RotateRefreshToken is a single-statement compare-and-swap: it writes the
// new token only when old is still the stored value. Zero rows affected
// means the presented token was already rotated out or cleared.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, userID, old, new string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}

	const q = `UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2;`
	res, err := r.db.ExecContext(ctx, q, userID, old, new)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrRefreshTokenInvalid()
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if newHash == "" {
		return domain.ErrMissingField("password_hash")
	}

	const q = `UPDATE users SET password_hash = $2 WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, userID, newHash)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) (domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, domain.ErrMissingField("user_id")
	}

	const q = `
UPDATE users SET full_name = $2, email = $3
WHERE id = $1
RETURNING ` + userColumns + `;`

	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, userID, fullName, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "duplicate") || strings.Contains(low, "unique") {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// SwapAssetURL stores the new URL and returns the previous one in a single
// statement, so two concurrent replaces cannot both claim the same old blob.
func (r *UserRepo) SwapAssetURL(ctx context.Context, userID string, slot domain.AssetSlot, url string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", domain.ErrMissingField("user_id")
	}

	var q string
	switch slot {
	case domain.SlotAvatar:
		q = `
UPDATE users u SET avatar_url = $2
FROM (SELECT id, avatar_url AS old_url FROM users WHERE id = $1 FOR UPDATE) prev
WHERE u.id = prev.id
RETURNING prev.old_url;`
	case domain.SlotCover:
		q = `
UPDATE users u SET cover_url = $2
FROM (SELECT id, cover_url AS old_url FROM users WHERE id = $1 FOR UPDATE) prev
WHERE u.id = prev.id
RETURNING prev.old_url;`
	default:
		return "", domain.ErrInvalidField("slot", "unknown asset slot")
	}

	var old string
	if err := r.db.QueryRowContext(ctx, q, userID, url).Scan(&old); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUserNotFound()
		}
		return "", domain.ErrDBUnavailable(err)
	}
	return old, nil
}
