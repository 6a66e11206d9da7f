package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/florale-backend/pkg/config"
	"github.com/angelmondragon/florale-backend/pkg/db"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations when the app runs in dev mode with
// FLORALE_AUTO_MIGRATE set. Other environments migrate through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	src := EmbeddedSource()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect(), "source": src.String()})

	pending, err := Pending(ctx, sqlDB, client.Dialect(), src)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logg.Info(ctx, "migrate.autorun.up_to_date")
		return nil
	}
	logg.Info(logg.WithField(ctx, "pending", pending), "migrate.autorun.started")

	if err := Run(ctx, sqlDB, client.Dialect(), src, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.autorun.completed")
	return nil
}
