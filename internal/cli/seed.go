package cli

import (
	"log/slog"

	"github.com/mrelokusa/PopQuiz/internal/config"
	"github.com/mrelokusa/PopQuiz/internal/database"
	"github.com/mrelokusa/PopQuiz/internal/logging"
	"github.com/mrelokusa/PopQuiz/internal/storage/postgres"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter quizzes into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logging.Setup(slog.LevelInfo)

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			if err := database.Seed(cmd.Context(), postgres.NewQuizStore(db)); err != nil {
				return err
			}
			slog.Info("seed complete")
			return nil
		},
	}
}
