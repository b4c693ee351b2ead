package consumer

import (
	"errors"
	"net/http"
	"strings"

	gateway "github.com/Denis-Pavliha-s-p/strapi-google-auth/apigateway"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type loginRequest struct {
	Code string `json:"code"`
}

// RegisterRoutes mounts the sign-in endpoints under /google-auth. adminGuard protects
// the credentials endpoints.
func (s *Service) RegisterRoutes(r gin.IRouter, adminGuard gin.HandlerFunc) {
	g := r.Group("/google-auth")
	g.GET("/init", s.InitHandler)
	g.POST("/login", s.LoginHandler)
	g.GET("/me", s.MeHandler)

	admin := g.Group("/credentials", adminGuard)
	admin.GET("", s.GetCredentialsHandler)
	admin.POST("", s.SaveCredentialsHandler)
}

// InitHandler returns the consent URL the browser should be sent to.
func (s *Service) InitHandler(c *gin.Context) {
	url, err := s.CreateAuthURL(c.Request.Context())
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// LoginHandler takes {"code": "..."} (or ?code=) and returns {"data": {"token", "user"}}.
func (s *Service) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil && !errors.Is(err, apperr.ErrEmptyBody) {
		reject(c, err)
		return
	}
	if req.Code == "" {
		req.Code = c.Query("code")
	}
	res, err := s.LoginWithCode(c.Request.Context(), req.Code)
	if err != nil {
		reject(c, err)
		return
	}
	gateway.SetUserID(c, res.User.ID)
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// MeHandler introspects the session token in the Authorization header.
func (s *Service) MeHandler(c *gin.Context) {
	token := gateway.TokenFromHeader(c.GetHeader("Authorization"))
	if token == "" {
		reject(c, apperr.ErrInvalidToken)
		return
	}
	user, err := s.GetUserFromToken(c.Request.Context(), token)
	if err != nil {
		reject(c, err)
		return
	}
	gateway.SetUserID(c, user.ID)
	c.JSON(http.StatusOK, user)
}

// GetCredentialsHandler shows the stored configuration with the secret masked.
func (s *Service) GetCredentialsHandler(c *gin.Context) {
	creds, err := s.GetCredentials(c.Request.Context())
	if err != nil {
		reject(c, err)
		return
	}
	if creds == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": creds.Masked()})
}

func (s *Service) SaveCredentialsHandler(c *gin.Context) {
	var req CredentialsRequest
	if err := bindJSON(c, &req); err != nil {
		reject(c, err)
		return
	}
	saved, err := s.SaveCredentials(c.Request.Context(), req)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved.Masked()})
}

func bindJSON(c *gin.Context, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperr.Wrap(err, apperr.ErrBadRequest, "")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return apperr.ErrEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		if errors.Is(err, apperr.ErrInvalidScopes) {
			return apperr.Wrap(err, apperr.ErrInvalidScopes, "")
		}
		return apperr.Wrap(err, apperr.ErrBadRequest, "malformed request body")
	}
	return nil
}

// reject renders err as {error: true, code, message}. Server-side failures are logged.
func reject(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, apperr.Rejection(err))
}
