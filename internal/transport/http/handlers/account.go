package handlers

import (
	"net/http"
	"time"

	"github.com/streamhive/account-service/internal/application/account"
	"github.com/streamhive/account-service/internal/domain"
	"github.com/streamhive/account-service/internal/infrastructure/security"
	"github.com/streamhive/account-service/internal/logger"
	"github.com/streamhive/account-service/internal/transport/http/dto"
	"github.com/streamhive/account-service/internal/transport/http/middleware"
	"github.com/streamhive/account-service/internal/transport/http/response"
)

type AccountHandler struct {
	svc           *account.Service
	accessTTL     time.Duration
	refreshTTL    time.Duration
	maxUploadSize int64
	secureCookies bool
}

func NewAccountHandler(svc *account.Service, accessTTL, refreshTTL time.Duration, maxUploadSize int64, secureCookies bool) *AccountHandler {
	return &AccountHandler{
		svc:           svc,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		maxUploadSize: maxUploadSize,
		secureCookies: secureCookies,
	}
}

// Register handles the multipart registration form: text fields plus a
// required avatar file and an optional coverImage file.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		response.WriteError(w, r, domain.ErrInvalidField("body", "invalid multipart form"))
		return
	}

	form := dto.RegisterFormFromRequest(r)
	if err := form.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	avatarPath, avatarCleanup, err := stageUpload(r, "avatar", h.maxUploadSize)
	defer avatarCleanup()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	coverPath, coverCleanup, err := stageUpload(r, "coverImage", h.maxUploadSize)
	defer coverCleanup()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	created, err := h.svc.Register(r.Context(), account.RegisterInput{
		FullName:   form.FullName,
		Username:   form.Username,
		Email:      form.Email,
		Password:   form.Password,
		AvatarPath: avatarPath,
		CoverPath:  coverPath,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.NewUserView(created), "user registered successfully")
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Identifier(), req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.SetAuthCookies(w, res.Tokens.AccessToken, res.Tokens.RefreshToken, h.accessTTL, h.refreshTTL, h.secureCookies)

	response.OK(w, dto.LoginData{
		User:   dto.NewUserView(res.User),
		Tokens: dto.NewTokensView(res.Tokens),
	}, "user logged in successfully")
}

// Refresh accepts the refresh token from the cookie or, failing that, the
// request body.
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented, _ := security.ReadRefreshToken(r)
	if presented == "" {
		var req dto.RefreshRequest
		if err := response.DecodeJSON(r, &req); err == nil {
			presented = req.RefreshToken
		}
	}
	if presented == "" {
		response.WriteError(w, r, domain.ErrRefreshTokenInvalid())
		return
	}

	toks, err := h.svc.Refresh(r.Context(), presented)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.SetAuthCookies(w, toks.AccessToken, toks.RefreshToken, h.accessTTL, h.refreshTTL, h.secureCookies)

	response.OK(w, dto.NewTokensView(toks), "access token refreshed successfully")
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.Logout(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.ClearAuthCookies(w, h.secureCookies)
	response.OK(w, struct{}{}, "user logged out")
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetCurrentUser(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(u), "current user fetched successfully")
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.ChangePasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		response.WriteError(w, r, err)
		return
	}

	// The refresh session is gone; drop the cookies too.
	security.ClearAuthCookies(w, h.secureCookies)
	response.OK(w, struct{}{}, "password changed successfully")
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), userID, req.FullName, req.Email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(u), "account details updated successfully")
}

func (h *AccountHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceAsset(w, r, domain.SlotAvatar, "avatar")
}

func (h *AccountHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.replaceAsset(w, r, domain.SlotCover, "coverImage")
}

func (h *AccountHandler) replaceAsset(w http.ResponseWriter, r *http.Request, slot domain.AssetSlot, field string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		response.WriteError(w, r, domain.ErrInvalidField("body", "invalid multipart form"))
		return
	}

	path, cleanup, err := stageUpload(r, field, h.maxUploadSize)
	defer cleanup()
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if path == "" {
		response.WriteError(w, r, domain.ErrMissingField(field))
		return
	}

	u, err := h.svc.ReplaceAsset(r.Context(), userID, slot, path)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	l := logger.WithCtx(r.Context())
	l.Info().
		Str("user_id", userID).
		Str("slot", string(slot)).
		Msg("asset_updated")

	response.OK(w, dto.NewUserView(u), string(slot)+" updated successfully")
}

func (h *AccountHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	h.deleteAsset(w, r, domain.SlotAvatar)
}

func (h *AccountHandler) DeleteCoverImage(w http.ResponseWriter, r *http.Request) {
	h.deleteAsset(w, r, domain.SlotCover)
}

func (h *AccountHandler) deleteAsset(w http.ResponseWriter, r *http.Request, slot domain.AssetSlot) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	status, err := h.svc.DeleteAsset(r.Context(), userID, slot)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.DeleteData{Status: string(status)}, string(slot)+" delete processed")
}
