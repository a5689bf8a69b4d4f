package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const maxAvatarUpload = 5 << 20

// ProfileHandler lets a signed-in visitor view and edit their profile. Every
// write is followed by FetchProfile so the store's cached copy is replaced
// wholesale.
type ProfileHandler struct {
	profiles ports.ProfileService
}

func NewProfileHandler(profiles ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the cached profile, fetching it first when the store has none.
//
// @Summary      Current profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	v, id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return h.respond(c, v, id)
}

// Update saves the editable profile fields.
//
// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	v, id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	err = h.profiles.Update(ctx, v.Backend, id, ports.ProfileUpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}

	v.Store.FetchProfile(ctx, id)
	return h.respond(c, v, id)
}

// UploadAvatar replaces the profile picture.
//
// @Summary      Upload avatar
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Image (jpg, png, gif, webp; max 5 MiB)"
// @Success      200     {object}  avatarResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	v, id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "avatar file is required")
	}
	if fh.Size > maxAvatarUpload {
		return fmt.Errorf("%w: file larger than 5 MiB", domain.ErrInvalidAvatar)
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAvatarUpload+1))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	url, err := h.profiles.UploadAvatar(ctx, v.Backend, id, fh.Filename, data)
	if err != nil {
		return err
	}

	v.Store.FetchProfile(ctx, id)
	return c.JSON(http.StatusOK, avatarResponse{AvatarURL: url})
}

func (h *ProfileHandler) respond(c echo.Context, v *ports.Visitor, id string) error {
	st := v.Store.State()
	if st.Profile == nil {
		v.Store.FetchProfile(c.Request().Context(), id)
		st = v.Store.State()
	}
	if st.Profile == nil {
		if st.Err != nil {
			return st.Err
		}
		return domain.ErrProfileNotFound
	}
	return c.JSON(http.StatusOK, toProfileResponse(st.Profile))
}
