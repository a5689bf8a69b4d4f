package handler

import (
	"time"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type profileResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Phone       string `json:"no_telp,omitempty"`
	Address     string `json:"alamat,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type sessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Identity      *identityResponse `json:"identity,omitempty"`
	Profile       *profileResponse  `json:"profile,omitempty"`
	Error         string            `json:"error,omitempty"`
	Warning       string            `json:"warning,omitempty"`
}

type loginResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

// --- Profile ---

type profileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Phone    string `json:"no_telp"`
	Address  string `json:"alamat"`
}

type avatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// --- Catalog ---

type highlightDTO struct {
	Place       string `json:"place"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

type destinationRequest struct {
	Country     string         `json:"country"     validate:"required"`
	Name        string         `json:"name"        validate:"required"`
	Description string         `json:"description" validate:"required"`
	ImageURL    string         `json:"image_url"   validate:"required"`
	Category    string         `json:"category"    validate:"required"`
	Link        string         `json:"link"`
	Highlights  []highlightDTO `json:"highlights"  validate:"max=2"`
}

type destinationSummary struct {
	ID       string `json:"id"`
	Country  string `json:"country"`
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

type destinationResponse struct {
	ID          string         `json:"id"`
	Country     string         `json:"country"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	Category    string         `json:"category"`
	Link        string         `json:"link,omitempty"`
	Highlights  []highlightDTO `json:"highlights"`
}

type listDestinationsResponse struct {
	Items      []destinationSummary `json:"items"`
	Categories []string             `json:"categories"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// --- Contact / home ---

type contactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

type feedbackResponse struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type homeResponse struct {
	Featured []destinationSummary `json:"featured"`
	Feedback []feedbackResponse   `json:"feedback"`
}

// --- Mappers ---

const summaryLength = 120

func toSessionResponse(st ports.SessionState) sessionResponse {
	resp := sessionResponse{
		Authenticated: st.Authenticated(),
		Error:         st.ErrMessage(),
	}
	if st.Identity != nil {
		resp.Identity = &identityResponse{ID: st.Identity.ID, Email: st.Identity.Email}
	}
	if st.Profile != nil {
		p := toProfileResponse(st.Profile)
		resp.Profile = &p
	}
	return resp
}

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		FullName:    p.FullName,
		DisplayName: p.DisplayName(),
		Email:       p.Email,
		Role:        string(p.Role),
		Phone:       p.Phone,
		Address:     p.Address,
		AvatarURL:   p.AvatarURL,
	}
}

func toDestinationInput(req destinationRequest) ports.DestinationInput {
	in := ports.DestinationInput{
		Country:     req.Country,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Link:        req.Link,
	}
	for _, h := range req.Highlights {
		in.Highlights = append(in.Highlights, ports.HighlightInput{
			Place:       h.Place,
			ImageURL:    h.ImageURL,
			Description: h.Description,
		})
	}
	return in
}

func toDestinationSummary(d *domain.Destination) destinationSummary {
	return destinationSummary{
		ID:       d.ID,
		Country:  d.Country,
		Name:     d.Name,
		Summary:  d.Summary(summaryLength),
		ImageURL: d.ImageURL,
		Category: d.Category,
	}
}

func toDestinationSummaries(items []*domain.Destination) []destinationSummary {
	out := make([]destinationSummary, 0, len(items))
	for _, d := range items {
		out = append(out, toDestinationSummary(d))
	}
	return out
}

func toDestinationResponse(d *domain.Destination) destinationResponse {
	resp := destinationResponse{
		ID:          d.ID,
		Country:     d.Country,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Category:    d.Category,
		Link:        d.Link,
		Highlights:  make([]highlightDTO, 0, len(d.Highlights)),
	}
	for _, h := range d.Highlights {
		resp.Highlights = append(resp.Highlights, highlightDTO{
			Place:       h.Place,
			ImageURL:    h.ImageURL,
			Description: h.Description,
		})
	}
	return resp
}

func toFeedbackResponses(items []*domain.Feedback) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(items))
	for _, f := range items {
		out = append(out, feedbackResponse{
			Name:      f.Name,
			Message:   f.Message,
			CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
