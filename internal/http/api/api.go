// Package api wires the HTTP surface: route registration and the
// authentication middleware chain.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/config"
	"github.com/intelhub/backend/internal/http/api/handlers"
	"gorm.io/gorm"
)

// RegisterRoutes registers all routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	authTokenHandler := handlers.NewAuthTokenHandler(db, cfg.TokenExpireMinutes)
	r.POST("/auth-token", authTokenHandler.ObtainToken)

	identified := r.Group("")
	identified.Use(handlers.Authenticate(db))

	// The ingest endpoint reports anonymity itself with a localized message,
	// so it skips RequireAuth.
	iitcHandler := handlers.NewIITCHandler(db)
	identified.POST("/iitc", iitcHandler.Ingest)

	authed := identified.Group("")
	authed.Use(handlers.RequireAuth())

	userHandler := handlers.NewUserHandler(db)
	authed.GET("/users", userHandler.List)
	authed.GET("/users/:id", userHandler.Get)

	groupHandler := handlers.NewGroupHandler(db)
	authed.GET("/groups", groupHandler.List)
	authed.GET("/groups/:id", groupHandler.Get)

	portalHandler := handlers.NewPortalHandler(db)
	authed.POST("/portals", portalHandler.Create)
	authed.GET("/portals", portalHandler.List)
	authed.GET("/portals/:id", portalHandler.Get)
	authed.PUT("/portals/:id", portalHandler.Update)
	authed.DELETE("/portals/:id", portalHandler.Delete)

	tagTypeHandler := handlers.NewTagTypeHandler(db)
	authed.POST("/tagtypes", tagTypeHandler.Create)
	authed.GET("/tagtypes", tagTypeHandler.List)
	authed.GET("/tagtypes/:id", tagTypeHandler.Get)
	authed.PUT("/tagtypes/:id", tagTypeHandler.Update)
	authed.DELETE("/tagtypes/:id", tagTypeHandler.Delete)

	tagHandler := handlers.NewTagHandler(db)
	authed.POST("/tags", tagHandler.Create)
	authed.GET("/tags", tagHandler.List)
	authed.GET("/tags/:id", tagHandler.Get)
	authed.PUT("/tags/:id", tagHandler.Update)
	authed.DELETE("/tags/:id", tagHandler.Delete)

	commentHandler := handlers.NewCommentHandler(db)
	authed.POST("/comments", commentHandler.Create)
	authed.GET("/comments", commentHandler.List)
	authed.GET("/comments/:id", commentHandler.Get)
	authed.PUT("/comments/:id", commentHandler.Update)
	authed.DELETE("/comments/:id", commentHandler.Delete)
}
