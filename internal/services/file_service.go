// file: internal/services/file_service.go
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"personahub/internal/config"
	"personahub/internal/events"
	"personahub/internal/repositories"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const avatarUploadTimeout = 2 * time.Minute

// fileService implements FileService on Cloudinary
type fileService struct {
	cloudinary  *cloudinary.Cloudinary
	profileRepo repositories.ProfileRepository
	cfg         *config.CloudinaryConfig
	events      events.EventBus
	logger      *zap.Logger
}

// NewFileService creates a new file service
func NewFileService(
	cld *cloudinary.Cloudinary,
	profileRepo repositories.ProfileRepository,
	cfg *config.CloudinaryConfig,
	events events.EventBus,
	logger *zap.Logger,
) FileService {
	return &fileService{
		cloudinary:  cld,
		profileRepo: profileRepo,
		cfg:         cfg,
		events:      events,
		logger:      logger,
	}
}

// UploadAvatar uploads a profile avatar and stores the resulting URL on the
// profile
func (s *fileService) UploadAvatar(ctx context.Context, req *UploadAvatarRequest) (*UploadResult, error) {
	if req == nil || req.File == nil || req.Header == nil {
		return nil, NewValidationError("avatar file is required", nil)
	}
	if err := s.validateAvatar(req); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("profile not found")
		}
		return nil, NewInternalError("failed to upload avatar")
	}
	if !profile.IsOwnedBy(req.AccountID) {
		return nil, NewNotFoundError("profile not found")
	}

	uploadCtx, cancel := context.WithTimeout(ctx, avatarUploadTimeout)
	defer cancel()

	result, err := s.cloudinary.Upload.Upload(uploadCtx, req.File, uploader.UploadParams{
		Folder:         fmt.Sprintf("%s/%d", s.cfg.UploadFolder, req.AccountID),
		ResourceType:   "image",
		UseFilename:    boolPtr(false),
		UniqueFilename: boolPtr(true),
		Tags:           []string{"personahub", "avatar"},
	})
	if err != nil {
		s.logger.Error("failed to upload avatar",
			zap.Error(err),
			zap.Int64("profile_id", req.ProfileID),
		)
		return nil, NewInternalError("failed to upload avatar")
	}

	profile.AvatarURL = &result.SecureURL
	if err := s.profileRepo.Update(uploadCtx, profile); err != nil {
		s.logger.Error("failed to store avatar URL",
			zap.Error(err),
			zap.Int64("profile_id", req.ProfileID),
		)
		return nil, NewInternalError("failed to store avatar")
	}

	if err := s.events.PublishAsync(ctx, events.NewAvatarUploadedEvent(
		profile.ID, result.SecureURL, result.PublicID, int64(result.Bytes),
	)); err != nil {
		s.logger.Warn("failed to publish avatar uploaded event", zap.Error(err))
	}

	s.logger.Info("avatar uploaded",
		zap.Int64("profile_id", profile.ID),
		zap.String("public_id", result.PublicID),
	)

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Bytes:    int64(result.Bytes),
	}, nil
}

// DeleteFile removes a previously uploaded file
func (s *fileService) DeleteFile(ctx context.Context, publicID string) error {
	if publicID == "" {
		return NewValidationError("public ID is required", nil)
	}

	deleteCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := s.cloudinary.Upload.Destroy(deleteCtx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		s.logger.Error("failed to delete file", zap.Error(err), zap.String("public_id", publicID))
		return NewInternalError("failed to delete file")
	}
	if result.Result != "ok" && result.Result != "not found" {
		return NewInternalError(fmt.Sprintf("unexpected delete result: %s", result.Result))
	}

	return nil
}

func (s *fileService) validateAvatar(req *UploadAvatarRequest) error {
	if s.cfg.MaxFileSize > 0 && req.Header.Size > s.cfg.MaxFileSize {
		return NewValidationError(
			fmt.Sprintf("avatar exceeds maximum size of %d bytes", s.cfg.MaxFileSize), nil)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.Header.Filename)), ".")
	if len(s.cfg.AllowedFormats) > 0 {
		allowed := false
		for _, format := range s.cfg.AllowedFormats {
			if strings.EqualFold(strings.TrimSpace(format), ext) {
				allowed = true
				break
			}
		}
		if !allowed {
			return NewValidationError(fmt.Sprintf("unsupported avatar format: %s", ext), nil)
		}
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
