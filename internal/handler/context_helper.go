package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/learnlingo/learnlingo-api/internal/middleware"
	"github.com/learnlingo/learnlingo-api/internal/models"
	"github.com/learnlingo/learnlingo-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// favoritesScope returns the identity bucket for favorites: the user id when
// authenticated, otherwise the shared anonymous scope.
func favoritesScope(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return service.AnonymousScope
}
