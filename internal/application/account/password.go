package account

import (
	"context"
	"strings"

	"github.com/streamhive/account-service/internal/domain"
)

// ChangePassword replaces the password hash after verifying the old
// password. The stored refresh token is cleared as well: a password change
// ends the active session, and the old refresh token can no longer be
// rotated. Still-valid access tokens expire on their own.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" {
		return domain.ErrTokenMissing()
	}
	if strings.TrimSpace(oldPassword) == "" {
		return domain.ErrMissingField("oldPassword")
	}
	if strings.TrimSpace(newPassword) == "" {
		return domain.ErrMissingField("newPassword")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, oldPassword); err != nil {
		return domain.ErrInvalidOldPassword()
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		// Hash is already replaced; a leftover refresh token only survives
		// until its natural expiry. Log and report the store failure.
		s.log.Error().Err(err).Str("user_id", userID).Msg("session not invalidated after password change")
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password_changed")
	return nil
}
