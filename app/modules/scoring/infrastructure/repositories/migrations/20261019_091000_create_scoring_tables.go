package scoringmigrations

import (
	"context"
	"fmt"

	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competition_participants and user_round_scores tables...")

		if _, err := db.NewCreateTable().Model((*scoringdb.CompetitionParticipant)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*scoringdb.UserRoundScore)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw(`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_round_scores_key
			ON user_round_scores (tournament_id, user_id, competition_id, round, player_id)`).Exec(ctx)
		if err != nil {
			return err
		}
		// Standings aggregate by (tournament, user).
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_user_round_scores_standings ON user_round_scores (tournament_id, user_id)").Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Scoring tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scoring tables...")

		if _, err := db.NewDropTable().Model((*scoringdb.UserRoundScore)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*scoringdb.CompetitionParticipant)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Scoring tables dropped successfully!")
		return nil
	})
}
