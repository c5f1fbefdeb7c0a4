package auth

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/opencoder/opencoder-api/model"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"github.com/opencoder/opencoder-api/utils/response"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const oauthStateCookie = "oauth_state"

// GoogleLoginResponse carries the consent page URL for the client to open
type GoogleLoginResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// GoogleLogin starts the OAuth flow. The state nonce is pinned in a short
// lived cookie and checked again on the redirect callback.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return response.Success(c, GoogleLoginResponse{
		AuthorizationURL: h.googleAuth.AuthCodeURL(state),
	})
}

// GoogleCallback handles the browser redirect leg of the OAuth flow. On
// success the user lands on the frontend with an access token in the query.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return response.BadRequest(c, fmt.Sprintf("Google authorization failed: %s", errParam))
	}

	code := c.Query("code")
	if code == "" {
		return response.BadRequest(c, "Missing authorization code")
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return response.BadRequest(c, "Invalid OAuth state")
	}
	c.ClearCookie(oauthStateCookie)

	user, err := h.completeGoogleLogin(c, code)
	if err != nil {
		return response.UpstreamFailure(c, "Failed to complete Google sign-in")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	redirect := fmt.Sprintf("%s?token=%s", h.frontendCallback, url.QueryEscape(accessToken))
	return c.Redirect(redirect, fiber.StatusTemporaryRedirect)
}

// GoogleCallbackRequest is the SPA variant of the callback, where the client
// forwards the authorization code itself
type GoogleCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

// GoogleCallbackPost exchanges a forwarded authorization code and returns the
// session token as JSON instead of redirecting
func (h *AuthHandler) GoogleCallbackPost(c *fiber.Ctx) error {
	var req GoogleCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Code == "" {
		return response.BadRequest(c, "Authorization code is required")
	}

	user, err := h.completeGoogleLogin(c, req.Code)
	if err != nil {
		return response.UpstreamFailure(c, "Failed to complete Google sign-in")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	return response.Success(c, LoginResponse{
		User:        toUserResponse(user),
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   24 * 60 * 60,
	})
}

// completeGoogleLogin exchanges the code, loads the Google profile and
// upserts the matching local account with the fresh token set
func (h *AuthHandler) completeGoogleLogin(c *fiber.Ctx, code string) (*model.User, error) {
	ctx := c.Context()

	tok, err := h.googleAuth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := h.googleAuth.UserInfo(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}

	return h.upsertGoogleUser(info, tok)
}

// upsertGoogleUser links the Google identity to an existing account by google
// id or email, creating a password-less account when neither matches. The
// refresh token is only overwritten when Google actually sent one; repeat
// consents often omit it.
func (h *AuthHandler) upsertGoogleUser(info *googlesvc.UserInfo, tok *oauth2.Token) (*model.User, error) {
	var user model.User
	err := h.db.Where("google_id = ?", info.ID).First(&user).Error
	if err == gorm.ErrRecordNotFound && info.Email != "" {
		err = h.db.Where("email = ?", info.Email).First(&user).Error
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		user = model.User{
			Email:              info.Email,
			FullName:           info.Name,
			IsActive:           true,
			GoogleID:           info.ID,
			GoogleAccessToken:  tok.AccessToken,
			GoogleRefreshToken: tok.RefreshToken,
			TokenExpiry:        googlesvc.ExpiryFromToken(tok),
		}
		if err := h.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	updates := map[string]interface{}{
		"google_id":           info.ID,
		"google_access_token": tok.AccessToken,
		"token_expiry":        googlesvc.ExpiryFromToken(tok),
	}
	if tok.RefreshToken != "" {
		updates["google_refresh_token"] = tok.RefreshToken
	}
	if user.FullName == "" && info.Name != "" {
		updates["full_name"] = info.Name
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := h.db.First(&user, user.ID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
