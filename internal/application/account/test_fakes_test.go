package account

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamhive/account-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr       error
	getByIdentErr    error
	getByUsernameErr error
	getByEmailErr    error
	createErr        error
	setRefreshErr    error
	rotateErr        error
	updatePwdErr     error
	updateProfErr    error
	swapErr          error

	// record calls
	setRefreshCalls []struct{ id, value string }
	rotateCalls     []struct{ id, old, new string }
	swapCalls       []struct {
		id   string
		slot domain.AssetSlot
		url  string
	}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) add(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) get(id string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIdentErr != nil {
		return domain.User{}, f.getByIdentErr
	}
	for _, u := range f.byID {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByUsernameErr != nil {
		return domain.User{}, f.getByUsernameErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) SetRefreshToken(ctx context.Context, userID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setRefreshErr != nil {
		return f.setRefreshErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.RefreshToken = value
	f.byID[userID] = u
	f.setRefreshCalls = append(f.setRefreshCalls, struct{ id, value string }{userID, value})
	return nil
}

func (f *fakeUserRepo) RotateRefreshToken(ctx context.Context, userID, old, new string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rotateErr != nil {
		return f.rotateErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrRefreshTokenInvalid()
	}
	if u.RefreshToken != old {
		return domain.ErrRefreshTokenInvalid()
	}
	u.RefreshToken = new
	f.byID[userID] = u
	f.rotateCalls = append(f.rotateCalls, struct{ id, old, new string }{userID, old, new})
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.PasswordHash = newHash
	f.byID[userID] = u
	return nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateProfErr != nil {
		return domain.User{}, f.updateProfErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.FullName = fullName
	u.Email = email
	f.byID[userID] = u
	return u, nil
}

func (f *fakeUserRepo) SwapAssetURL(ctx context.Context, userID string, slot domain.AssetSlot, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.swapErr != nil {
		return "", f.swapErr
	}
	u, ok := f.byID[userID]
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
	}
	f.byID[userID] = u
	f.swapCalls = append(f.swapCalls, struct {
		id   string
		slot domain.AssetSlot
		url  string
	}{userID, slot, url})
	return old, nil
}

/*
fakeHasher: reversible "hashing" so tests can assert on stored values.
*/

type fakeHasher struct {
	hashErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash string, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return fmt.Errorf("mismatch")
}

/*
fakeIssuer: deterministic tokens, counter-suffixed so every refresh token is
distinct within a test.
*/

type fakeIssuer struct {
	mu sync.Mutex
	n  int

	signAccessErr  error
	signRefreshErr error
	verifyErr      error
}

func (f *fakeIssuer) SignAccessToken(userID, username string) (string, error) {
	if f.signAccessErr != nil {
		return "", f.signAccessErr
	}
	return "access:" + userID, nil
}

func (f *fakeIssuer) SignRefreshToken(userID string) (string, error) {
	if f.signRefreshErr != nil {
		return "", f.signRefreshErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("refresh:%s:%d", userID, f.n), nil
}

func (f *fakeIssuer) VerifyAccessToken(token string) (TokenClaims, error) {
	if f.verifyErr != nil {
		return TokenClaims{}, f.verifyErr
	}
	id, ok := strings.CutPrefix(token, "access:")
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: id}, nil
}

func (f *fakeIssuer) VerifyRefreshToken(token string) (TokenClaims, error) {
	if f.verifyErr != nil {
		return TokenClaims{}, f.verifyErr
	}
	rest, ok := strings.CutPrefix(token, "refresh:")
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	id, _, _ := strings.Cut(rest, ":")
	return TokenClaims{UserID: id}, nil
}

func (f *fakeIssuer) AccessTTL() time.Duration { return 15 * time.Minute }

/*
fakeStore: records uploads and deletes.
*/

type fakeStore struct {
	mu sync.Mutex

	uploadErr    error
	failUploadOn int // 1-based call index; 0 = never
	deleteErr    error

	uploadCalls int
	uploads     []string // local paths
	deletes     []string // urls
}

func (f *fakeStore) Upload(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if f.failUploadOn != 0 && f.uploadCalls == f.failUploadOn {
		return "", fmt.Errorf("upload %d failed", f.uploadCalls)
	}
	f.uploads = append(f.uploads, localPath)
	return "https://cdn.test/users/" + localPath, nil
}

func (f *fakeStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, url)
	return nil
}

func (f *fakeStore) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

/*
service under test
*/

func newTestService(repo *fakeUserRepo, hasher *fakeHasher, issuer *fakeIssuer, store *fakeStore) *Service {
	return NewService(repo, hasher, issuer, store, zerolog.Nop())
}

func seedUser(repo *fakeUserRepo, id, username, email, password string) domain.User {
	u := domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		FullName:     "Seed User",
		PasswordHash: "hashed:" + password,
		AvatarURL:    "https://cdn.test/users/seed-avatar.png",
		CreatedAt:    time.Now(),
	}
	repo.add(u)
	return u
}
