package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/volunteer-hub-api/internal/middleware"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

// currentViewer returns the caller's identity, or nil for anonymous
// requests. Handlers pass it explicitly into services so visibility
// logic never reads ambient state.
func currentViewer(c *gin.Context) *services.Viewer {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return nil
	}
	return &services.Viewer{ID: userID, Role: role}
}
