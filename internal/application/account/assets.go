package account

import (
	"context"

	"github.com/streamhive/account-service/internal/domain"
)

// DeleteStatus reports the outcome of an explicit asset delete.
type DeleteStatus string

const (
	DeleteDone    DeleteStatus = "deleted"
	DeleteNothing DeleteStatus = "nothing to delete"
)

// ReplaceAsset uploads a staged local file into the given slot and then
// best-effort deletes the previous remote object.
//
// Ordering is deliberate: the new object must exist before the stored URL is
// swapped, and the swap must commit before the old object is deleted. An
// upload failure leaves the user record untouched and triggers no delete;
// a delete failure is logged but never rolls back the committed URL — the
// user keeps a valid asset reference at the cost of a transient orphan blob.
func (s *Service) ReplaceAsset(ctx context.Context, userID string, slot domain.AssetSlot, localPath string) (domain.PublicUser, error) {
	if userID == "" {
		return domain.PublicUser{}, domain.ErrTokenMissing()
	}
	if !slot.Valid() {
		return domain.PublicUser{}, domain.ErrInvalidField("slot", "unknown asset slot")
	}
	if localPath == "" {
		return domain.PublicUser{}, domain.ErrMissingField(string(slot))
	}

	newURL, err := s.store.Upload(ctx, localPath)
	if err != nil || newURL == "" {
		return domain.PublicUser{}, domain.ErrUploadFailed(string(slot), err)
	}

	oldURL, err := s.users.SwapAssetURL(ctx, userID, slot, newURL)
	if err != nil {
		// The record still references the old asset; remove the unreferenced
		// new blob so it does not linger.
		s.cleanupUploads(ctx, newURL)
		return domain.PublicUser{}, err
	}

	if oldURL != "" && oldURL != newURL {
		if err := s.store.Delete(ctx, oldURL); err != nil {
			s.log.Warn().Err(err).
				Str("user_id", userID).
				Str("slot", string(slot)).
				Str("url", oldURL).
				Msg("old asset not deleted")
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, err
	}

	s.log.Info().Str("user_id", userID).Str("slot", string(slot)).Msg("asset_replaced")
	return u.Public(), nil
}

// DeleteAsset clears the slot and deletes the current remote object without
// replacement. Deleting an already-absent asset is a no-op, not an error.
func (s *Service) DeleteAsset(ctx context.Context, userID string, slot domain.AssetSlot) (DeleteStatus, error) {
	if userID == "" {
		return "", domain.ErrTokenMissing()
	}
	if !slot.Valid() {
		return "", domain.ErrInvalidField("slot", "unknown asset slot")
	}

	oldURL, err := s.users.SwapAssetURL(ctx, userID, slot, "")
	if err != nil {
		return "", err
	}
	if oldURL == "" {
		return DeleteNothing, nil
	}

	if err := s.store.Delete(ctx, oldURL); err != nil {
		s.log.Warn().Err(err).
			Str("user_id", userID).
			Str("slot", string(slot)).
			Str("url", oldURL).
			Msg("asset delete failed")
		return "", domain.ErrStorageUnavailable(err)
	}

	return DeleteDone, nil
}
