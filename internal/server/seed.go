package server

import (
	"context"
	"log/slog"

	"github.com/trackboard/trackboard/internal/catalog"
)

// SeedCatalog loads the catalog into an empty database. It does nothing
// once any track exists.
func SeedCatalog(ctx context.Context, logger *slog.Logger, store Store, c *catalog.Catalog) error {
	seeded, err := store.SeedCatalog(ctx, c)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("catalog seeded",
			"tracks", len(c.Tracks),
			"seasons", len(c.Seasons),
			"countries", len(c.Countries),
			"resources", len(c.Resources),
		)
	}
	return nil
}
