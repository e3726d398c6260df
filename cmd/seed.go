package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"snapgram-backend/internal/config"
	"snapgram-backend/internal/seed"

	"github.com/rs/zerolog/log"
)

// runSeed handles `snapgram seed [-users N] [-seed S]`
func runSeed(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	users := fs.Int("users", 10, "number of accounts to create")
	seedValue := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *users <= 0 {
		return fmt.Errorf("users must be positive, got %d", *users)
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.store.Close(ctx)

	log.Info().Int("users", *users).Str("driver", cfg.Database.Driver).Msg("Seeding")

	_, err = seed.New(a.users, a.posts, *seedValue).Run(ctx, seed.Options{Users: *users})
	a.cleaner.Wait()
	return err
}
