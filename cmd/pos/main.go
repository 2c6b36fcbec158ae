package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Skotchmaster/tossplace/internal/app"
	"github.com/Skotchmaster/tossplace/pkg/config"
	"github.com/Skotchmaster/tossplace/pkg/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log.Desugar())

	cliApp := &cli.App{
		Name:  "pos",
		Usage: "tossplace point-of-sale maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the SQLite database",
				Value:       cfg.DBPath,
				Destination: &cfg.DBPath,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create the database and apply the schema",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(ctx context.Context, a *app.App) error {
						fmt.Fprintf(c.App.Writer, "schema applied to %s\n", a.Store.Path())
						return nil
					})
				},
			},
			{
				Name:  "useradd",
				Usage: "register a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"POS_USER_PASSWORD"}},
					&cli.StringFlag{Name: "name", Usage: "full name", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(ctx context.Context, a *app.App) error {
						u, err := a.Auth.Register(ctx, c.String("username"), c.String("email"), c.String("password"), c.String("name"))
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "created user %d (%s)\n", u.ID, u.Username)
						return nil
					})
				},
			},
			{
				Name:  "report",
				Usage: "print today's order and revenue summary",
				Action: func(c *cli.Context) error {
					return withApp(c, cfg, log, func(ctx context.Context, a *app.App) error {
						return report(ctx, c.App.Writer, a)
					})
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalw("pos failed", "error", err)
	}
}

func withApp(c *cli.Context, cfg config.Config, log *zap.SugaredLogger, fn func(context.Context, *app.App) error) error {
	ctx, cancel := context.WithTimeout(logging.IntoContext(c.Context, log), 30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warnw("close failed", "error", err)
		}
	}()
	return fn(ctx, a)
}

func report(ctx context.Context, w io.Writer, a *app.App) error {
	today, err := a.Orders.GetTodayOrders(ctx)
	if err != nil {
		return err
	}
	pending, err := a.Orders.GetPendingOrderCount(ctx)
	if err != nil {
		return err
	}
	total, err := a.Orders.GetTotalOrdersCount(ctx)
	if err != nil {
		return err
	}
	orderRevenue, err := a.Orders.GetTodayRevenue(ctx)
	if err != nil {
		return err
	}
	daily, err := a.Payments.GetDailyRevenue(ctx)
	if err != nil {
		return err
	}
	monthly, err := a.Payments.GetMonthlyRevenue(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "orders today:      %d\n", len(today))
	fmt.Fprintf(w, "orders pending:    %d\n", pending)
	fmt.Fprintf(w, "orders total:      %d\n", total)
	fmt.Fprintf(w, "completed today:   %s\n", orderRevenue.StringFixed(2))
	fmt.Fprintf(w, "payments today:    %s\n", daily.StringFixed(2))
	fmt.Fprintf(w, "payments month:    %s\n", monthly.StringFixed(2))
	return nil
}
