package tournamentmigrations

import (
	"context"
	"fmt"

	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournament tables...")

		models := []any{
			(*tournamentdb.Tournament)(nil),
			(*tournamentdb.Competition)(nil),
			(*tournamentdb.Player)(nil),
			(*tournamentdb.PlayerDivision)(nil),
			(*tournamentdb.TournamentPlayerDivision)(nil),
			(*tournamentdb.Member)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_competitions_tournament_id ON competitions (tournament_id, start_date)").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_competitions_tournament_external ON competitions (tournament_id, external_id)").Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Tournament tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tournament tables...")

		models := []any{
			(*tournamentdb.Member)(nil),
			(*tournamentdb.TournamentPlayerDivision)(nil),
			(*tournamentdb.PlayerDivision)(nil),
			(*tournamentdb.Player)(nil),
			(*tournamentdb.Competition)(nil),
			(*tournamentdb.Tournament)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Tournament tables dropped successfully!")
		return nil
	})
}
