package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"
)

const watchHelp = `Commands:
  CODE        fetch the board of a station, e.g. HKI
  /q TEXT     list stations matching TEXT
  /help       show this help
  /exit       quit`

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "interactive terminal board; type station codes to switch stations",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "refresh",
				Usage: "re-fetch the current station at this interval (0 disables)",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			w := newWatcher(viewer.NewSession(a.viewer), a.catalog.Options(), a.cfg.Labels, c.App.Writer)
			if a.catalogErr != nil {
				w.println(a.cfg.Labels.StatusCatalogError)
			}
			return w.run(ctx, c.App.Reader, c.Duration("refresh"))
		},
	}
}

// watcher reads commands line by line. Fetches run in the background so a new
// station can be typed while an older request is still in flight.
type watcher struct {
	session *viewer.Session
	options []models.StationOption
	labels  config.Labels

	outMu sync.Mutex
	out   io.Writer

	stationMu sync.Mutex
	station   string

	wg sync.WaitGroup
}

func newWatcher(session *viewer.Session, options []models.StationOption, labels config.Labels, out io.Writer) *watcher {
	return &watcher{session: session, options: options, labels: labels, out: out}
}

func (w *watcher) run(ctx context.Context, in io.Reader, refresh time.Duration) error {
	// In-flight fetches finish before run returns; the refresh loop stops first
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer func() {
		stopRefresh()
		w.wg.Wait()
	}()

	if refresh > 0 {
		w.wg.Add(1)
		go w.refreshLoop(refreshCtx, ctx, refresh)
	}

	w.println(w.labels.StatusSelect)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/exit" || line == "/quit":
			return nil
		case line == "/help":
			w.println(watchHelp)
		case strings.HasPrefix(line, "/q"):
			w.listStations(strings.TrimSpace(strings.TrimPrefix(line, "/q")))
		case strings.HasPrefix(line, "/"):
			w.println(watchHelp)
		default:
			w.show(ctx, strings.ToUpper(line))
		}
	}
	return scanner.Err()
}

func (w *watcher) show(ctx context.Context, code string) {
	w.stationMu.Lock()
	w.station = code
	w.stationMu.Unlock()

	w.println(w.labels.StatusLoading)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		result, err := w.session.Show(ctx, code)
		if errors.Is(err, viewer.ErrStale) {
			return
		}
		w.print(result)
	}()
}

func (w *watcher) refreshLoop(loopCtx, fetchCtx context.Context, every time.Duration) {
	defer w.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.stationMu.Lock()
			code := w.station
			w.stationMu.Unlock()
			if code != "" {
				w.show(fetchCtx, code)
			}
		case <-loopCtx.Done():
			return
		}
	}
}

func (w *watcher) listStations(query string) {
	visible := catalog.Visible(catalog.Filter(w.options, query))

	w.outMu.Lock()
	defer w.outMu.Unlock()
	for _, opt := range visible {
		fmt.Fprintln(w.out, opt.Label)
	}
	fmt.Fprintf(w.out, "(%d)\n", len(visible))
}

func (w *watcher) print(result viewer.Result) {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	fmt.Fprintln(w.out)
	if err := printResult(w.out, result, w.labels); err != nil {
		fmt.Fprintln(w.out, err)
	}
}

func (w *watcher) println(s string) {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	fmt.Fprintln(w.out, s)
}
