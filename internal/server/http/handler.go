package http

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/videotube/internal/common"
	"github.com/dmitrijs2005/videotube/internal/server/models"
	"github.com/dmitrijs2005/videotube/internal/server/services"
)

func setTokenCookies(c fiber.Ctx, pair *services.TokenPair, accessTTL, refreshTTL time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Expires:  time.Now().Add(accessTTL),
		HTTPOnly: true,
		Secure:   true,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Expires:  time.Now().Add(refreshTTL),
		HTTPOnly: true,
		Secure:   true,
	})
}

func clearTokenCookies(c fiber.Ctx) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   true,
		})
	}
}

// uploadFormFile stores the named multipart file and returns its URL.
// A missing file yields ("", nil) so callers decide whether it is required.
func (s *Server) uploadFormFile(c fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return "", nil
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	return s.media.Upload(c.Context(), f, fh.Header.Get("Content-Type"))
}

func (s *Server) register(c fiber.Ctx) error {
	avatarURL, err := s.uploadFormFile(c, "avatar")
	if err != nil {
		return s.fail(c, common.ErrorInternal, "")
	}
	if avatarURL == "" {
		return s.fail(c, common.ErrorValidation, "avatar file is required")
	}

	coverImageURL, err := s.uploadFormFile(c, "coverImage")
	if err != nil {
		return s.fail(c, common.ErrorInternal, "")
	}

	created, err := s.accounts.Register(c.Context(), services.RegisterInput{
		FullName:      c.FormValue("fullName"),
		Email:         c.FormValue("email"),
		Username:      c.FormValue("username"),
		Password:      c.FormValue("password"),
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	})
	if err != nil {
		if err == common.ErrorValidation {
			return s.fail(c, err, "all fields are required")
		}
		if err == common.ErrorAlreadyExists {
			return s.fail(c, err, "user with email or username already exists")
		}
		return s.fail(c, err, "")
	}

	s.logger.Info(c.Context(), "account registered", "username", created.Username)
	return respond(c, http.StatusCreated, created, "user registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return s.fail(c, common.ErrorValidation, "invalid request body")
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	account, pair, err := s.accounts.Login(c.Context(), identifier, req.Password)
	if err != nil {
		if err == common.ErrorValidation {
			return s.fail(c, err, "username or email is required")
		}
		if err == common.ErrorNotFound {
			return s.fail(c, err, "user does not exist")
		}
		if err == common.ErrorUnauthorized {
			return s.fail(c, err, "invalid user credentials")
		}
		return s.fail(c, err, "")
	}

	setTokenCookies(c, pair, s.accessTokenTTL, s.refreshTTL)

	s.logger.Info(c.Context(), "login", "username", account.Username)
	return respond(c, http.StatusOK, fiber.Map{
		"user":         account,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (s *Server) logout(c fiber.Ctx) error {
	account := currentAccount(c)

	if err := s.sessions.Revoke(c.Context(), account.ID); err != nil {
		return s.fail(c, err, "")
	}

	clearTokenCookies(c)
	return respond(c, http.StatusOK, nil, "user logged out")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) refreshToken(c fiber.Ctx) error {
	presented := c.Cookies(refreshTokenCookie)
	if presented == "" {
		var req refreshRequest
		if err := c.Bind().Body(&req); err == nil {
			presented = req.RefreshToken
		}
	}
	if presented == "" {
		return s.fail(c, common.ErrInvalidToken, "missing refresh token")
	}

	pair, err := s.sessions.Rotate(c.Context(), presented)
	if err != nil {
		return s.fail(c, err, "")
	}

	setTokenCookies(c, pair, s.accessTokenTTL, s.refreshTTL)

	return respond(c, http.StatusOK, fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) changePassword(c fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return s.fail(c, common.ErrorValidation, "invalid request body")
	}

	account := currentAccount(c)

	if err := s.accounts.ChangePassword(c.Context(), account.ID, req.OldPassword, req.NewPassword); err != nil {
		if err == common.ErrorValidation {
			return s.fail(c, err, "invalid old password")
		}
		return s.fail(c, err, "")
	}

	return respond(c, http.StatusOK, nil, "password changed successfully")
}

func (s *Server) currentUser(c fiber.Ctx) error {
	return respond(c, http.StatusOK, currentAccount(c), "current user fetched successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (s *Server) updateAccount(c fiber.Ctx) error {
	var req updateAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		return s.fail(c, common.ErrorValidation, "invalid request body")
	}

	account := currentAccount(c)

	updated, err := s.accounts.UpdateDetails(c.Context(), account.ID, req.FullName, req.Email)
	if err != nil {
		if err == common.ErrorValidation {
			return s.fail(c, err, "all fields are required")
		}
		return s.fail(c, err, "")
	}

	return respond(c, http.StatusOK, updated, "account details updated successfully")
}

func (s *Server) updateAvatar(c fiber.Ctx) error {
	return s.updateImage(c, "avatar", s.accounts.UpdateAvatar)
}

func (s *Server) updateCoverImage(c fiber.Ctx) error {
	return s.updateImage(c, "coverImage", s.accounts.UpdateCoverImage)
}

func (s *Server) updateImage(c fiber.Ctx, field string, update func(ctx context.Context, accountID string, file io.Reader, contentType string) (*models.AccountPublic, error)) error {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return s.fail(c, common.ErrorValidation, field+" file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return s.fail(c, common.ErrorInternal, "")
	}
	defer func() { _ = f.Close() }()

	account := currentAccount(c)

	updated, err := update(c.Context(), account.ID, f, fh.Header.Get("Content-Type"))
	if err != nil {
		return s.fail(c, err, "")
	}

	return respond(c, http.StatusOK, updated, field+" updated successfully")
}

func (s *Server) channelProfile(c fiber.Ctx) error {
	requesterID := ""
	if account := currentAccount(c); account != nil {
		requesterID = account.ID
	}

	profile, err := s.views.ChannelProfile(c.Context(), c.Params("username"), requesterID)
	if err != nil {
		if err == common.ErrorNotFound {
			return s.fail(c, err, "channel does not exist")
		}
		return s.fail(c, err, "")
	}

	return respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (s *Server) watchHistory(c fiber.Ctx) error {
	account := currentAccount(c)

	items, err := s.views.WatchHistory(c.Context(), account.ID)
	if err != nil {
		return s.fail(c, err, "")
	}

	return respond(c, http.StatusOK, items, "watch history fetched successfully")
}
