package account

import (
	"context"
	"strings"

	"github.com/streamhive/account-service/internal/domain"
)

// GetCurrentUser returns the public view of an authenticated user.
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (domain.PublicUser, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return u.Public(), nil
}

// UpdateProfile replaces the mutable profile fields. Both are required;
// a partial update is not part of the contract.
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName, email string) (domain.PublicUser, error) {
	if userID == "" {
		return domain.PublicUser{}, domain.ErrTokenMissing()
	}
	fullName = strings.TrimSpace(fullName)
	email = domain.NormalizeIdentifier(email)
	if fullName == "" {
		return domain.PublicUser{}, domain.ErrMissingField("fullName")
	}
	if email == "" {
		return domain.PublicUser{}, domain.ErrMissingField("email")
	}

	// Reject an email already owned by another account before writing.
	if other, err := s.users.GetByEmail(ctx, email); err == nil && other.ID != userID {
		return domain.PublicUser{}, domain.ErrEmailAlreadyExists()
	} else if err != nil && !domain.Is(err, "user_not_found") {
		return domain.PublicUser{}, err
	}

	u, err := s.users.UpdateProfile(ctx, userID, fullName, email)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return u.Public(), nil
}
