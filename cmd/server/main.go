package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/intelhub/backend/internal/app"
	"github.com/intelhub/backend/internal/config"
	"github.com/intelhub/backend/internal/db"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	if errRun := run(os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and starts the server or the user
// bootstrap path.
func run(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 0, "server port (overrides config)")
	createUser := fs.String("create-user", "", "create an account with this username and exit")
	password := fs.String("password", "", "password for -create-user")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	configPath := *cfgPath
	if strings.TrimSpace(configPath) == "" {
		configPath = os.Getenv(config.EnvConfigPath)
	}
	cfg, err := config.Load(config.ResolveConfigPath(configPath))
	if err != nil {
		return err
	}
	if *port != 0 {
		if *port < 0 || *port > 65535 {
			return fmt.Errorf("invalid port: %d", *port)
		}
		cfg.Port = *port
	}

	if strings.TrimSpace(*createUser) != "" {
		conn, errOpen := db.Open(cfg.DatabaseDSN)
		if errOpen != nil {
			return errOpen
		}
		if errMigrate := db.Migrate(conn); errMigrate != nil {
			return errMigrate
		}
		if errCreate := app.CreateUserWithConn(conn, *createUser, *password); errCreate != nil {
			return errCreate
		}
		log.Infof("created user %q", strings.TrimSpace(*createUser))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunServer(ctx, cfg)
}
