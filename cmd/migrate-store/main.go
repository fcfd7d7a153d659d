// Command migrate-store copies every collection and singleton from one
// store backend to another, e.g. the JSON data directory into MongoDB:
//
//	migrate-store --from file --to mongo
//
// Connection details come from the same environment as the server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/emika-opensource/marketing-manager/internal/config"
	"github.com/emika-opensource/marketing-manager/internal/store"
	"github.com/emika-opensource/marketing-manager/internal/store/backend"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
)

func main() {
	from := pflag.String("from", "file", "source backend (file|sqlite|mongo|redis)")
	to := pflag.String("to", "", "destination backend (file|sqlite|mongo|redis)")
	fromDir := pflag.String("from-dir", "", "override the data directory of a file/sqlite source")
	toDir := pflag.String("to-dir", "", "override the data directory of a file/sqlite destination")
	dryRun := pflag.Bool("dry-run", false, "read and validate only")
	level := pflag.String("log-level", "info", "debug|info|warn|error")
	pflag.Parse()

	logger.Init(*level)
	if *to == "" || *to == *from && *toDir == *fromDir {
		logger.Fatalf("--to must name a different destination than --from")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := backend.Open(ctx, withBackend(cfg, *from, *fromDir))
	if err != nil {
		logger.Fatalf("open source %s: %v", *from, err)
	}
	defer src.Close()
	dst, err := backend.Open(ctx, withBackend(cfg, *to, *toDir))
	if err != nil {
		logger.Fatalf("open destination %s: %v", *to, err)
	}
	defer dst.Close()

	res, err := store.Migrate(ctx, src, dst, *dryRun)
	if err != nil {
		logger.Errorf("migration failed after %d names: %v", len(res.Copied), err)
		os.Exit(1)
	}
	logger.Infof("migration finished: copied=%v skipped=%v", res.Copied, res.Skipped)
}

func withBackend(cfg *config.Config, kind, dir string) *config.Config {
	c := *cfg
	c.Store.Backend = kind
	if dir != "" {
		c.Store.DataDir = dir
		c.Store.SQLitePath = ""
	}
	return &c
}
