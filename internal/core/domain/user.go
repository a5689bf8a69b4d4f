package domain

import "time"

// Role gates access to the admin panel.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated account as issued by the auth backend.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an active authentication session held by the backend client.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Identity  `json:"user"`
}

// Account is the auth backend's private record of a credential pair.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the application-level record keyed by Identity.ID.
// Role is written once at registration.
type Profile struct {
	ID        string `json:"id" bson:"_id"`
	FullName  string `json:"full_name" bson:"full_name"`
	Email     string `json:"email" bson:"email"`
	Role      Role   `json:"role" bson:"role"`
	Phone     string `json:"no_telp,omitempty" bson:"no_telp,omitempty"`
	Address   string `json:"alamat,omitempty" bson:"alamat,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
}

const profilePlaceholderName = "Profile"

// DisplayName falls back to a placeholder when the profile has no name.
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == "" {
		return profilePlaceholderName
	}
	return p.FullName
}

// IsAdmin reports whether the profile may use the admin panel.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
