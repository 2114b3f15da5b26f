package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/Black-And-White-Club/frolf-fantasy/app"
	exchangeservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/application"
	exchangetime "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/infrastructure/timeparse"
	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	scoringservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/application"
	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/observability"
	"github.com/Black-And-White-Club/frolf-fantasy/config"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cliApp := &cli.App{
		Name:  "frolf-fantasy",
		Usage: "fantasy roster exchange and scoring engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			exchangeStatusCommand(),
			importResultsCommand(),
			standingsCommand(),
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (*config.Config, observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to load config: %w", err)
	}
	obs, err := observability.Init(observability.Config{
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
		Output:      os.Stderr,
	})
	if err != nil {
		return nil, observability.Observability{}, err
	}
	return cfg, obs, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, the result bridge and the scoring queue",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before starting"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			application, err := app.New(c.Context, cfg, obs, app.Options{Migrate: c.Bool("migrate")})
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			return application.Run(c.Context)
		},
	}
}

func exchangeStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "exchange-status",
		Usage: "print what a user may do in a tournament's exchange",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tournament", Required: true},
			&cli.StringFlag{Name: "user", Required: true},
			&cli.BoolFlag{Name: "admin", Usage: "evaluate as an administrator"},
			&cli.StringFlag{Name: "at", Usage: `instant to evaluate, e.g. "tomorrow at 9am" (default now)`},
		},
		Action: func(c *cli.Context) error {
			tournamentID, err := uuid.Parse(c.String("tournament"))
			if err != nil {
				return fmt.Errorf("invalid tournament id: %w", err)
			}
			userID, err := uuid.Parse(c.String("user"))
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}

			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			at, err := exchangetime.NewParser(loc).Parse(c.String("at"), clockwork.NewRealClock().Now())
			if err != nil {
				return err
			}

			db := app.OpenDB(cfg.Postgres.DSN)
			defer db.Close()

			service := exchangeservice.NewExchangeService(
				tournamentdb.NewRepository(db),
				scoringdb.NewRepository(db),
				loc, obs.Logger, obs.Metrics, obs.Tracer, db,
			)
			status, err := service.ExchangeStatus(c.Context, userID, tournamentID, at, c.Bool("admin"))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "%s at %s\n", status.Kind, at.In(loc).Format("2006-01-02 15:04 MST"))
			if status.OpensAt != nil {
				fmt.Fprintf(c.App.Writer, "turn opens %s\n", status.OpensAt.In(loc).Format("2006-01-02 15:04 MST"))
			}

			begun, err := service.HasExchangeBegun(c.Context, tournamentID, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "exchange begun: %t\n", begun)
			return nil
		},
	}
}

func scoringService(cfg *config.Config, obs observability.Observability) (scoringservice.Service, func() error, error) {
	weights, err := scoringdomain.NewLevelWeights(cfg.Scoring.LevelWeights, cfg.Scoring.DefaultWeight)
	if err != nil {
		return nil, nil, err
	}
	db := app.OpenDB(cfg.Postgres.DSN)
	service := scoringservice.NewScoringService(
		scoringdb.NewRepository(db),
		tournamentdb.NewRepository(db),
		rosterdb.NewRepository(db),
		weights, nil, nil, obs.Logger, obs.Metrics, obs.Tracer, db,
	)
	return service, db.Close, nil
}

func importResultsCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-results",
		Usage:     "score a round from a CSV or XLSX results file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "competition", Required: true},
			&cli.IntFlag{Name: "round", Required: true},
			&cli.StringFlag{Name: "division", Required: true},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one results file", 2)
			}
			competitionID, err := uuid.Parse(c.String("competition"))
			if err != nil {
				return fmt.Errorf("invalid competition id: %w", err)
			}
			path := c.Args().First()
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read results file: %w", err)
			}

			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			service, closeDB, err := scoringService(cfg, obs)
			if err != nil {
				return err
			}
			defer closeDB()

			summary, err := service.ImportRoundResults(c.Context, competitionID, c.Int("round"), c.String("division"), filepath.Base(path), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "scored %d players, wrote %d entries, removed %d, skipped %d\n",
				summary.PlayersScored, summary.EntriesWritten, summary.EntriesRemoved, summary.PlayersSkipped)
			return nil
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print a tournament's standings, worst first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tournament", Required: true},
		},
		Action: func(c *cli.Context) error {
			tournamentID, err := uuid.Parse(c.String("tournament"))
			if err != nil {
				return fmt.Errorf("invalid tournament id: %w", err)
			}
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			service, closeDB, err := scoringService(cfg, obs)
			if err != nil {
				return err
			}
			defer closeDB()

			standings, err := service.ListStandings(c.Context, tournamentID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tUSER\tSCORE")
			for _, s := range standings {
				name := s.DisplayName
				if name == "" {
					name = s.UserID.String()
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\n", s.Rank, name, s.Score)
			}
			return tw.Flush()
		},
	}
}
