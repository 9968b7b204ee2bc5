package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/handlers"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/render"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/server"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"

	_ "time/tzdata"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	app := &cli.App{
		Name:        "junat",
		Usage:       "live arrivals and departures of Finnish railway stations",
		Description: "Reads the Digitraffic rail API and shows the station timetable in a browser or terminal",

		Commands: []*cli.Command{
			serveCommand(),
			boardCommand(),
			stationsCommand(),
			watchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web page and JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen target for the web server (default \":$PORT\")",
			},
			&cli.DurationFlag{
				Name:  "cleanup-interval",
				Value: time.Hour,
				Usage: "how often expired history is deleted",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			listen := c.String("listen")
			if listen == "" {
				listen = ":" + a.cfg.Port
			}

			h := server.Handlers{
				Board: handlers.NewBoardHandler(handlers.BoardOptions{
					Catalog:       a.catalog,
					Fetcher:       a.viewer,
					Labels:        a.cfg.Labels,
					CatalogFailed: a.catalogErr != nil,
					Timeout:       a.cfg.HTTPTimeout + 5*time.Second,
					Logger:        a.log,
				}),
				Stations: handlers.NewStationHandler(a.catalog),
				Schedule: handlers.NewScheduleHandler(a.viewer, a.cfg.HTTPTimeout+5*time.Second),
			}
			if a.store != nil {
				h.History = handlers.NewHistoryHandler(a.store)
				h.Health = handlers.NewHealthHandler(a.store, a.catalog)
			} else {
				h.Health = handlers.NewHealthHandler(nil, a.catalog)
			}

			go a.runCleanup(ctx, c.Duration("cleanup-interval"))

			router := server.NewRouter(h, a.cfg.CORSOrigins, a.log)
			if err := server.Run(ctx, listen, router, a.log); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			a.log.Info("Goodbye!")
			return nil
		},
	}
}

func boardCommand() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "print the arrivals and departures of one station",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "station",
				Aliases:  []string{"s"},
				Usage:    "station short code, e.g. HKI",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the board as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context, false)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.viewer.Fetch(c.Context, strings.ToUpper(c.String("station")))
			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(result); encErr != nil {
					return encErr
				}
				return err
			}

			if printErr := printResult(c.App.Writer, result, a.cfg.Labels); printErr != nil {
				return printErr
			}
			return err
		},
	}
}

func stationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stations",
		Usage: "list passenger stations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "only stations whose \"name (code)\" contains this text",
			},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context, false)
			if err != nil {
				return err
			}
			defer a.close()

			if a.catalogErr != nil {
				return errors.New(a.cfg.Labels.StatusCatalogError)
			}
			for _, opt := range catalog.Visible(catalog.Filter(a.catalog.Options(), c.String("query"))) {
				fmt.Fprintln(c.App.Writer, opt.Label)
			}
			return nil
		},
	}
}

// printResult writes the status line and, for a rendered board, both tables
func printResult(w io.Writer, result viewer.Result, labels config.Labels) error {
	fmt.Fprintln(w, result.Status)
	if result.Board == nil {
		return nil
	}
	fmt.Fprintln(w)
	return render.Text(w, render.BuildTables(*result.Board, labels))
}
