package ports

import "context"

// ProfileUpdateInput holds the profile fields a user may edit. Role is not
// editable.
type ProfileUpdateInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// ProfileService writes profile changes through the visitor's backend client.
type ProfileService interface {
	Update(ctx context.Context, client BackendClient, identityID string, input ProfileUpdateInput) error
	// UploadAvatar stores the image and returns its public URL.
	UploadAvatar(ctx context.Context, client BackendClient, identityID, filename string, data []byte) (string, error)
}
