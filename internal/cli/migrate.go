package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/config"
	pgstore "smarttest-quiz-service/internal/infra/postgres"
	pgmigrations "smarttest-quiz-service/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and optionally seeds the question bank.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)
			if err := runMigrationsWithConfig(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			if seed {
				return seedQuestionBank(cmd.Context(), cfg, logger)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "copy the built-in question banks into an empty question_bank table")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("database schema up to date")
	} else {
		logger.Info("migrations applied", "group", group.String())
	}
	return nil
}

func seedQuestionBank(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	loader := pgstore.NewBankLoader(pool)
	n, err := loader.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("question bank already populated, skipping seed", "questions", n)
		return nil
	}

	cat := catalog.Default()
	for _, subject := range cat.ListSubjects() {
		records, err := cat.GetBank(subject)
		if err != nil {
			return err
		}
		if err := loader.InsertQuestions(ctx, subject, records); err != nil {
			return err
		}
		logger.Info("seeded subject", "subject", subject, "questions", len(records))
	}
	return nil
}
