package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const maxAvatarBytes = 5 << 20

var avatarExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
}

type ProfileService struct {
	log zerolog.Logger
}

func NewProfileService(log zerolog.Logger) *ProfileService {
	return &ProfileService{log: log}
}

// Update replaces the editable fields of the caller's profile. Role and avatar
// are carried over from the stored record.
func (s *ProfileService) Update(ctx context.Context, client ports.BackendClient, identityID string, in ports.ProfileUpdateInput) error {
	current, err := s.load(ctx, client, identityID)
	if err != nil {
		return err
	}

	current.FullName = strings.TrimSpace(in.FullName)
	current.Email = strings.TrimSpace(in.Email)
	current.Phone = strings.TrimSpace(in.Phone)
	current.Address = strings.TrimSpace(in.Address)

	if err := client.Upsert(ctx, ports.TableProfiles, identityID, current); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	s.log.Info().Str("identity_id", identityID).Msg("profile updated")
	return nil
}

// UploadAvatar stores the image as avatars/<id>.<ext>, replacing the previous
// one, and points the profile at its public URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, client ports.BackendClient, identityID, filename string, data []byte) (string, error) {
	if len(data) == 0 || len(data) > maxAvatarBytes {
		return "", fmt.Errorf("%w: size must be between 1 byte and %d bytes", domain.ErrInvalidAvatar, maxAvatarBytes)
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if _, ok := avatarExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidAvatar, ext)
	}

	current, err := s.load(ctx, client, identityID)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("avatars/%s.%s", identityID, ext)
	if err := client.UploadFile(ctx, ports.BucketAvatars, objectPath, data); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	url := client.PublicURL(ports.BucketAvatars, objectPath)
	current.AvatarURL = url
	if err := client.Upsert(ctx, ports.TableProfiles, identityID, current); err != nil {
		return "", fmt.Errorf("save avatar url: %w", err)
	}

	s.log.Info().Str("identity_id", identityID).Str("path", objectPath).Msg("avatar uploaded")
	return url, nil
}

func (s *ProfileService) load(ctx context.Context, client ports.BackendClient, identityID string) (*domain.Profile, error) {
	if identityID == "" {
		return nil, domain.ErrUnauthenticated
	}
	var p domain.Profile
	if err := client.SelectOne(ctx, ports.TableProfiles, ports.Filter{"id": identityID}, &p); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &p, nil
}
