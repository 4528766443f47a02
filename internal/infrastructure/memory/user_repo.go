package memory

import (
	"context"
	"sync"
	"time"

	"github.com/streamhive/account-service/internal/domain"
)

// UserRepo is an in-memory account.UserRepo. It backs tests and the
// DB_ADDR=memory development mode; semantics mirror the postgres repo,
// including the compare-and-swap refresh rotation.
type UserRepo struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[string]domain.User{}}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	identifier = domain.NormalizeIdentifier(identifier)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = domain.NormalizeIdentifier(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeIdentifier(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = domain.NormalizeIdentifier(u.Username)
	u.Email = domain.NormalizeIdentifier(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return domain.User{}, domain.ErrUsernameAlreadyExists()
		}
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, userID, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.RefreshToken = value
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) RotateRefreshToken(ctx context.Context, userID, old, new string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || u.RefreshToken != old {
		return domain.ErrRefreshTokenInvalid()
	}
	u.RefreshToken = new
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) (domain.User, error) {
	email = domain.NormalizeIdentifier(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	for id, other := range r.byID {
		if id != userID && other.Email == email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	u.FullName = fullName
	u.Email = email
	r.byID[userID] = u
	return u, nil
}

func (r *UserRepo) SwapAssetURL(ctx context.Context, userID string, slot domain.AssetSlot, url string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return "", domain.ErrUserNotFound()
	}

	var old string
	switch slot {
	case domain.SlotAvatar:
		old = u.AvatarURL
		u.AvatarURL = url
	case domain.SlotCover:
		old = u.CoverURL
		u.CoverURL = url
	default:
		return "", domain.ErrInvalidField("slot", "unknown asset slot")
	}
	r.byID[userID] = u
	return old, nil
}
