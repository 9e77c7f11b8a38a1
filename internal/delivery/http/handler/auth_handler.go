package handler

import (
	"net/http"

	"market-catalog/internal/delivery/http/middleware"
	entity "market-catalog/internal/domain"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the identity resolved by the bearer middleware.
// Signup and login live in the account service that issues the tokens.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type profileResponse struct {
	ID      string         `json:"id"`
	Account entity.Account `json:"account"`
}

// Profile handles GET /user/profile.
//
// @Summary      Current User
// @Tags         User
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /user/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		writeError(c, entity.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, profileResponse{ID: user.ID.String(), Account: user.Account})
}
