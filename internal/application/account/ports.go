package account

import (
	"context"
	"time"

	"github.com/streamhive/account-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the account service needs, not HOW it's stored.

Mutations are field-level conditional updates executed by the store so
concurrent requests from the same account cannot lose writes.
*/
type UserRepo interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	// GetByIdentifier resolves a username or an email (case-insensitive).
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token
	// (login) or clears it (logout, password change).
	SetRefreshToken(ctx context.Context, userID, value string) error
	// RotateRefreshToken swaps old -> new only if old is the currently
	// stored value. A non-match returns ErrRefreshTokenInvalid; this is the
	// reuse-detection primitive.
	RotateRefreshToken(ctx context.Context, userID, old, new string) error

	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
	UpdateProfile(ctx context.Context, userID, fullName, email string) (domain.User, error)
	// SwapAssetURL stores url in the slot and returns the previous value.
	SwapAssetURL(ctx context.Context, userID string, slot domain.AssetSlot, url string) (oldURL string, err error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

// TokenClaims is the verified claim set of either token class.
type TokenClaims struct {
	UserID   string
	Username string
	Exp      time.Time
}

/*
TokenIssuer
-----------
Issues and verifies the two token classes. Access and refresh tokens are
signed with distinct secrets so compromise of one cannot forge the other.
*/
type TokenIssuer interface {
	SignAccessToken(userID, username string) (string, error)
	SignRefreshToken(userID string) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
	VerifyRefreshToken(token string) (TokenClaims, error)
	AccessTTL() time.Duration
}

/*
ObjectStore
-----------
Remote object store boundary. Upload/delete primitives are assumed correct;
the service only sequences them.
*/
type ObjectStore interface {
	// Upload pushes a staged local file and returns its public URL.
	Upload(ctx context.Context, localPath string) (url string, err error)
	// Delete removes the object behind url. Deleting an absent object is
	// not an error.
	Delete(ctx context.Context, url string) error
}
