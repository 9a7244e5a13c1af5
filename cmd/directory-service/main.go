// trustcall-directory-service/cmd/directory-service/main.go
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/trustcall/trustcall-directory-service/internal/app"
	"github.com/trustcall/trustcall-directory-service/internal/config"
	"github.com/trustcall/trustcall-directory-service/internal/logger"
)

var (
	ServiceVersion string
	GitCommit      string
	BuildDate      string
)

const serviceName = "directory-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if ServiceVersion != "" {
		cfg.ServiceVersion = ServiceVersion
	}

	log := logger.New(
		serviceName,
		cfg.ServiceVersion,
		cfg.Env,
		cfg.NodeHostname,
		cfg.LogLevel,
		cfg.LogFormat,
	)

	log.Info().
		Str("event", logger.EventSystemStartup).
		Dict("attributes", zerolog.Dict().
			Str("commit", GitCommit).
			Str("build_date", BuildDate).
			Str("profile", cfg.Env).
			Str("store", cfg.StoreDriver).
			Str("cache", cfg.CacheDriver)).
		Msg("Starting TrustCall directory service")

	application := app.NewApp(cfg, log)
	if err := application.Run(); err != nil {
		log.Error().Err(err).Msg("Directory service exited with error")
		os.Exit(1)
	}
}
