package rostermigrations

import (
	"context"
	"fmt"

	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating roster_slots and roster_trade_log tables...")

		if _, err := db.NewCreateTable().Model((*rosterdb.Slot)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*rosterdb.TradeLogEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		statements := []string{
			// one player per slot, one slot per player
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_roster_slots_slot
				ON roster_slots (tournament_id, user_id, division, slot_number)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_roster_slots_player
				ON roster_slots (tournament_id, user_id, division, player_id)`,
			`CREATE INDEX IF NOT EXISTS idx_roster_slots_holders
				ON roster_slots (tournament_id, division, player_id) WHERE benched = FALSE`,
			`CREATE INDEX IF NOT EXISTS idx_roster_trade_log_tournament
				ON roster_trade_log (tournament_id, created_at DESC)`,
		}
		for _, stmt := range statements {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create roster index: %w", err)
			}
		}

		fmt.Println("Roster tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping roster tables...")

		if _, err := db.NewDropTable().Model((*rosterdb.TradeLogEntry)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*rosterdb.Slot)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Roster tables dropped successfully!")
		return nil
	})
}
