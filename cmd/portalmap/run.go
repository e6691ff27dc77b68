package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmorley/portalmap/pkg/fuzzy"
	"github.com/dmorley/portalmap/pkg/graph"
	"github.com/dmorley/portalmap/pkg/ingest"
	"github.com/dmorley/portalmap/pkg/logging"
	"github.com/dmorley/portalmap/pkg/pubsub"
	"github.com/dmorley/portalmap/pkg/zone"
)

// autosaveDebounce batches bursts of mutations into one save.
const autosaveDebounce = 2 * time.Second

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the portal map with sweeper, autosave, and a manual-entry prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMain(cmd.Context())
		},
	}
}

func runMain(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.loadSnapshot(ctx); err != nil {
		return err
	}

	sweeper := graph.NewSweeper(a.engine, a.cfg.Sweep.Interval, a.logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	if a.cfg.Metrics.Enabled {
		go serveMetrics(a)
	}

	go autosave(ctx, a)

	repl(ctx, a)

	// Final save on the way out so nothing observed since the last
	// debounce window is lost
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer saveCancel()
	if err := a.saveSnapshot(saveCtx); err != nil {
		a.logger.Error("final save failed", logging.Error(err))
	}
	return nil
}

func serveMetrics(a *app) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		a.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	a.logger.Info("metrics listener started", logging.String("listen", a.cfg.Metrics.Listen))
	if err := http.ListenAndServe(a.cfg.Metrics.Listen, mux); err != nil {
		a.logger.Error("metrics listener failed", logging.Error(err))
	}
}

// autosave persists the graph after mutations settle.
func autosave(ctx context.Context, a *app) {
	sub := a.bus.Subscribe(ctx, pubsub.TopicGraphUpdated)
	if sub == nil {
		return
	}

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.Channel():
			if !ok {
				return
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(autosaveDebounce, func() {
				saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := a.saveSnapshot(saveCtx); err != nil {
					a.logger.Error("autosave failed", logging.Error(err))
				}
			})
		}
	}
}

// repl reads manual-entry commands from stdin until quit or shutdown.
func repl(ctx context.Context, a *app) {
	ingestor := ingest.NewIngestor(a.engine, a.logger, a.metrics)
	matcher := fuzzy.Matcher{
		MaxDistance:    a.cfg.Fuzzy.MaxDistance,
		MaxSuggestions: a.cfg.Fuzzy.MaxSuggestions,
	}

	fmt.Println("portalmap ready. Commands: add a|b|min, rename old|new, type zone|cat, suggest name, show, save, quit")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := dispatch(ctx, a, ingestor, matcher, line); quit {
				return
			}
		}
	}
}

func dispatch(ctx context.Context, a *app, ingestor *ingest.Ingestor, matcher fuzzy.Matcher, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch cmd {
	case "":
	case "add":
		parts := strings.Split(rest, "|")
		if len(parts) != 3 {
			fmt.Println("usage: add origin|destination|minutes")
			break
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			fmt.Println("minutes must be a number")
			break
		}
		origin, destination := parts[0], parts[1]
		result := ingestor.Process(ingest.Observation{
			Origin:      &origin,
			Destination: &destination,
			Minutes:     &minutes,
			Source:      "manual",
		})
		if result.Accepted() {
			fmt.Printf("%s\n", result.AddResult)
		} else {
			fmt.Printf("rejected: %s\n", result.Reason)
		}
	case "rename":
		parts := strings.Split(rest, "|")
		if len(parts) != 2 {
			fmt.Println("usage: rename old|new")
			break
		}
		if err := a.engine.RenameZone(parts[0], parts[1]); err != nil {
			fmt.Printf("rename failed: %v\n", err)
		} else {
			fmt.Println("renamed")
		}
	case "type":
		parts := strings.Split(rest, "|")
		if len(parts) != 2 {
			fmt.Println("usage: type zone|category")
			break
		}
		if !a.engine.SetZoneCategory(parts[0], zone.ParseCategory(strings.TrimSpace(parts[1]))) {
			fmt.Println("zone not found")
		} else {
			fmt.Println("category set")
		}
	case "suggest":
		result := matcher.Suggest(strings.TrimSpace(rest), a.vocabulary().Names())
		reportSuggestion(a, result)
	case "show":
		printGraph(a.engine.Snapshot())
	case "save":
		if err := a.saveSnapshot(ctx); err != nil {
			fmt.Printf("save failed: %v\n", err)
		} else {
			fmt.Println("saved")
		}
	case "quit", "exit":
		return true
	default:
		fmt.Printf("unknown command %q\n", cmd)
	}
	return false
}

func reportSuggestion(a *app, result fuzzy.Result) {
	switch {
	case result.Valid:
		a.metrics.RecordFuzzyLookup("exact")
		fmt.Printf("valid: %s\n", result.Suggestions[0])
	case len(result.Suggestions) == 0:
		a.metrics.RecordFuzzyLookup("invalid")
		fmt.Println("no name given")
	case !a.vocabulary().Contains(result.Suggestions[0]):
		a.metrics.RecordFuzzyLookup("no_match")
		fmt.Printf("no close match, keeping %q\n", result.Suggestions[0])
	default:
		a.metrics.RecordFuzzyLookup("suggested")
		fmt.Printf("did you mean: %s\n", strings.Join(result.Suggestions, ", "))
	}
}

func printGraph(snap *graph.Snapshot) {
	fmt.Printf("revision %d: %d zones, %d connections\n",
		snap.Revision(), snap.NodeCount(), snap.EdgeCount())
	for _, n := range snap.Nodes() {
		fmt.Printf("  %-30s %s\n", n.ID, n.Category)
	}
	now := time.Now()
	for _, e := range snap.Edges() {
		fmt.Printf("  %s <-> %s  expires in %s\n",
			e.A, e.B, e.ExpiresAt.Sub(now).Round(time.Second))
	}
}
