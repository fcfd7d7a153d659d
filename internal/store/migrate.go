package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emika-opensource/marketing-manager/internal/store/backend"
	"github.com/emika-opensource/marketing-manager/pkg/logger"
)

// MigrateResult reports what Migrate did per name.
type MigrateResult struct {
	Copied  []string
	Skipped []string // never written in the source
}

// Migrate copies every collection and singleton from src to dst verbatim.
// Names absent from src are skipped, leaving dst untouched for them. Each
// payload is checked to be valid JSON before it is written.
func Migrate(ctx context.Context, src, dst backend.Backend, dryRun bool) (MigrateResult, error) {
	var res MigrateResult
	names := append(append([]string{}, CollectionNames...), SingletonNames...)
	for _, name := range names {
		data, err := src.Read(ctx, name)
		if errors.Is(err, backend.ErrNotExist) {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("read %s: %w", name, err)
		}
		if !json.Valid(data) {
			return res, fmt.Errorf("source %s is not valid JSON", name)
		}
		if !dryRun {
			if err := dst.Write(ctx, name, data); err != nil {
				return res, fmt.Errorf("write %s: %w", name, err)
			}
		}
		logger.Infof("migrated %s (%d bytes, dry-run=%v)", name, len(data), dryRun)
		res.Copied = append(res.Copied, name)
	}
	return res, nil
}
