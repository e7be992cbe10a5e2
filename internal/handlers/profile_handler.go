// file: internal/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"personahub/internal/contextutils"
	"personahub/internal/services"
)

// ProfileHandler serves profile management for the authenticated account
type ProfileHandler struct {
	*Base
	profiles services.ProfileService
	files    services.FileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(base *Base, profiles services.ProfileService, files services.FileService) *ProfileHandler {
	return &ProfileHandler{Base: base, profiles: profiles, files: files}
}

// Create handles POST /api/v1/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProfileRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	// The owning account always comes from the token, never the body
	req.AccountID = contextutils.GetAccountID(r.Context())

	profile, err := h.profiles.CreateProfile(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteCreated(w, r, profile)
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListProfiles(r.Context(), contextutils.GetAccountID(r.Context()))
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, profiles)
}

// Get handles GET /api/v1/profiles/{profileID}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), contextutils.GetAccountID(r.Context()), profileID)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, profile)
}

// Update handles PATCH /api/v1/profiles/{profileID}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	var req services.UpdateProfileRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	req.ProfileID = profileID
	req.AccountID = contextutils.GetAccountID(r.Context())

	profile, err := h.profiles.UpdateProfile(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, profile)
}

// SetDefault handles PUT /api/v1/profiles/{profileID}/default
func (h *ProfileHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	profile, err := h.profiles.SetDefaultProfile(r.Context(), contextutils.GetAccountID(r.Context()), profileID)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, profile)
}

// Delete handles DELETE /api/v1/profiles/{profileID}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := h.profiles.DeleteProfile(r.Context(), contextutils.GetAccountID(r.Context()), profileID); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteNoContent(w, r)
}

// UploadAvatar handles POST /api/v1/profiles/{profileID}/avatar
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		h.builder.WriteError(w, r, services.NewInternalError("file storage is not configured"))
		return
	}

	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.builder.WriteError(w, r, services.NewValidationError("malformed multipart form", err))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.builder.WriteError(w, r, services.NewValidationError("avatar file is required", err))
		return
	}
	defer file.Close()

	result, err := h.files.UploadAvatar(r.Context(), &services.UploadAvatarRequest{
		ProfileID: profileID,
		AccountID: contextutils.GetAccountID(r.Context()),
		File:      file,
		Header:    header,
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteCreated(w, r, result)
}
