package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/streamhive/account-service/internal/domain"
)

// RegisterInput carries the registration fields plus the staged local paths
// of the uploaded asset files. AvatarPath is required; CoverPath may be "".
type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	AvatarPath string
	CoverPath  string
}

// Register creates a new account. The avatar upload must succeed before the
// user record exists; a cover upload failure only leaves the cover absent.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	username := domain.NormalizeIdentifier(in.Username)
	email := domain.NormalizeIdentifier(in.Email)

	switch {
	case fullName == "":
		return domain.PublicUser{}, domain.ErrMissingField("fullName")
	case username == "":
		return domain.PublicUser{}, domain.ErrMissingField("username")
	case email == "":
		return domain.PublicUser{}, domain.ErrMissingField("email")
	case strings.TrimSpace(in.Password) == "":
		return domain.PublicUser{}, domain.ErrMissingField("password")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.PublicUser{}, domain.ErrUsernameAlreadyExists()
	} else if !domain.Is(err, "user_not_found") {
		return domain.PublicUser{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.PublicUser{}, domain.ErrEmailAlreadyExists()
	} else if !domain.Is(err, "user_not_found") {
		return domain.PublicUser{}, err
	}

	if in.AvatarPath == "" {
		return domain.PublicUser{}, domain.ErrAvatarRequired()
	}

	avatarURL, err := s.store.Upload(ctx, in.AvatarPath)
	if err != nil || avatarURL == "" {
		return domain.PublicUser{}, domain.ErrUploadFailed(string(domain.SlotAvatar), err)
	}

	// Cover is optional; a failed cover upload leaves the slot empty.
	coverURL := ""
	if in.CoverPath != "" {
		coverURL, err = s.store.Upload(ctx, in.CoverPath)
		if err != nil {
			s.log.Warn().Err(err).Msg("cover upload failed, continuing without cover")
			coverURL = ""
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.cleanupUploads(ctx, avatarURL, coverURL)
		return domain.PublicUser{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		AvatarURL:    avatarURL,
		CoverURL:     coverURL,
	})
	if err != nil {
		s.cleanupUploads(ctx, avatarURL, coverURL)
		return domain.PublicUser{}, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user_registered")
	return created.Public(), nil
}

// cleanupUploads best-effort deletes blobs uploaded for a registration that
// did not commit. Failures are only logged.
func (s *Service) cleanupUploads(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.store.Delete(ctx, u); err != nil {
			s.log.Warn().Err(err).Str("url", u).Msg("orphaned upload not deleted")
		}
	}
}
