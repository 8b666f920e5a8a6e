package main

import (
	"errors"

	"github.com/KirkDiggler/giveawaybot/internal/config"
	"github.com/spf13/cobra"
)

// migrateCommand creates the SQL tables without connecting to Discord.
// Opening the store runs the migrations; redis needs none.
func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			log := newLogger(cfg)

			if cfg.StoreDriver == config.StoreDriverRedis {
				log.Info().Msg("redis store has no schema to migrate")
				return nil
			}

			st, err := openStore(cfg, log)
			if err != nil {
				return err
			}

			log.Info().Str("driver", cfg.StoreDriver).Msg("schema is up to date")
			return st.close()
		},
	}
}
