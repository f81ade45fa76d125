package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/config"
	"github.com/intelhub/backend/internal/db"
	"github.com/intelhub/backend/internal/http/api"
	"github.com/intelhub/backend/internal/models"
	"github.com/intelhub/backend/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// RunServer opens the database, migrates, and serves the API until the
// context is cancelled.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, cfg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		<-errCh
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// CreateUserWithConn creates an active account and places it in the default
// group. Accounts are read-only over the API, so this is the bootstrap path.
func CreateUserWithConn(conn *gorm.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("app: username is required")
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("app: password is required")
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return errHash
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username: username,
			Password: hash,
			Active:   true,
		}
		if errCreate := tx.Create(&user).Error; errCreate != nil {
			return fmt.Errorf("app: create user: %w", errCreate)
		}

		var group models.Group
		errFind := tx.Where("is_default = ?", true).First(&group).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil
		}
		if errFind != nil {
			return fmt.Errorf("app: find default group: %w", errFind)
		}
		if errAssoc := tx.Model(&user).Association("Groups").Append(&group); errAssoc != nil {
			return fmt.Errorf("app: assign default group: %w", errAssoc)
		}
		return nil
	})
}
