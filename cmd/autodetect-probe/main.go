// ABOUTME: Entry point for autodetect-probe, a command-line host for source autodetection
// ABOUTME: Lists ranked video source candidates and runs one detection cycle

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/autodetect/internal/autodetect"
	"github.com/2389/autodetect/internal/config"
	"github.com/2389/autodetect/internal/element"
	"github.com/2389/autodetect/internal/logging"
	"github.com/2389/autodetect/internal/providers"
	"github.com/2389/autodetect/internal/registry"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
             _            _      _            _
  __ _ _   _| |_ ___   __| | ___| |_ ___  ___| |_
 / _' | | | | __/ _ \ / _' |/ _ \ __/ _ \/ __| __|
| (_| | |_| | || (_) | (_| |  __/ ||  __/ (__| |_
 \__,_|\__,_|\__\___/ \__,_|\___|\__\___|\___|\__|
`

// getConfigPath returns the path to the probe config file.
// Priority: AUTODETECT_CONFIG env var > XDG_CONFIG_HOME/autodetect/config.yaml > ~/.config/autodetect/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("AUTODETECT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "autodetect", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: autodetect-probe <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  list     Show registered candidates in probe order")
		fmt.Println("  detect   Run one activation cycle and report the bound source")
		fmt.Println("  version  Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(ctx, os.Stdout)
	case "detect":
		err = runDetect(ctx, os.Stdout)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs, built from the config file.
type env struct {
	configPath string
	loaded     bool
	cfg        *config.Config
	logger     *slog.Logger
	query      registry.Query
}

// setup loads configuration, falling back to defaults when the file does not exist,
// and registers the built-in providers.
func setup(configPath string, logOut io.Writer) (*env, error) {
	e := &env{configPath: configPath, loaded: true}

	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, e.loaded = config.Default(), false
	} else if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	e.cfg = cfg
	e.logger = logging.New(cfg.Logging, logOut)

	reg := registry.NewRegistry(e.logger)
	if err := providers.Register(reg, cfg.ProviderOptions()); err != nil {
		return nil, fmt.Errorf("registering providers: %w", err)
	}
	e.query = reg

	if cfg.Source.RankOverrides != "" {
		ranks, err := registry.LoadRankOverrides(cfg.Source.RankOverrides)
		if err != nil {
			return nil, fmt.Errorf("loading rank overrides: %w", err)
		}
		e.query = registry.OverrideQuery{Base: reg, Ranks: ranks}
		e.logger.Debug("rank overrides applied", "path", cfg.Source.RankOverrides, "count", len(ranks))
	}

	return e, nil
}

func printHeader(w io.Writer, e *env) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Fprint(w, banner)
	gray.Fprintf(w, "    version: %s\n\n", version)

	green.Fprint(w, "    ▶ ")
	if e.loaded {
		fmt.Fprintf(w, "Config:    %s\n", e.configPath)
	} else {
		fmt.Fprintf(w, "Config:    %s ", e.configPath)
		gray.Fprintln(w, "(not found, using defaults)")
	}
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Klass:     %s\n", strings.Join(e.cfg.Source.Klass, "/"))
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Min rank:  %d\n", e.cfg.Source.MinRank)
	green.Fprint(w, "    ▶ ")
	filter := e.cfg.Source.FilterCaps
	if filter == "" {
		filter = "(none)"
	}
	fmt.Fprintf(w, "Filter:    %s\n\n", filter)
}

func runList(_ context.Context, w io.Writer) error {
	e, err := setup(getConfigPath(), os.Stderr)
	if err != nil {
		return err
	}
	printHeader(w, e)
	return listCandidates(w, e)
}

// listCandidates prints every candidate of the configured klass in probe
// order, dimming the ones below the minimum rank.
func listCandidates(w io.Writer, e *env) error {
	gray := color.New(color.FgHiBlack)

	pred := registry.KlassPredicate(e.cfg.Source.Klass...)
	ranked := registry.Sort(e.query.Candidates(pred, math.MinInt))
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No candidates registered.")
		return nil
	}

	for _, d := range ranked {
		line := fmt.Sprintf("  %-20s %5d  %s", d.Name, d.Rank, d.Description)
		if d.Rank < e.cfg.Source.MinRank {
			gray.Fprintln(w, line+" (below min rank)")
			continue
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func runDetect(ctx context.Context, w io.Writer) error {
	e, err := setup(getConfigPath(), os.Stderr)
	if err != nil {
		return err
	}
	printHeader(w, e)
	return detect(ctx, w, e)
}

// detect runs NULL->READY->NULL once and prints what was bound and why.
func detect(ctx context.Context, w io.Writer, e *env) error {
	filter, err := e.cfg.Filter()
	if err != nil {
		return fmt.Errorf("parsing filter caps: %w", err)
	}

	rec := &autodetect.MessageRecorder{}
	src := autodetect.New(e.cfg.Source.Name, e.query,
		autodetect.WithPredicate(registry.KlassPredicate(e.cfg.Source.Klass...)),
		autodetect.WithMinRank(e.cfg.Source.MinRank),
		autodetect.WithFilterCaps(filter),
		autodetect.WithMessageSink(rec),
		autodetect.WithLogger(e.logger),
	)
	defer src.Close()

	actErr := src.Activate(ctx)
	printReport(w, src, rec)
	if actErr != nil {
		return fmt.Errorf("activating %s: %w", src.Name(), actErr)
	}

	if err := src.Deactivate(ctx); err != nil {
		return fmt.Errorf("deactivating %s: %w", src.Name(), err)
	}
	return nil
}

func printReport(w io.Writer, src *autodetect.Source, rec *autodetect.MessageRecorder) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	if report := src.LastReport(); report != nil {
		for _, o := range report.Outcomes {
			mark, c := "✗", red
			if o.Result == autodetect.ProbeSuccess {
				mark, c = "✓", green
			}
			c.Fprintf(w, "    %s ", mark)
			fmt.Fprintf(w, "%-20s %s", o.Candidate.Name, o.Result)
			gray.Fprintf(w, " (%s)\n", o.Instance)
			for _, err := range o.Errors {
				gray.Fprintf(w, "        %v\n", err)
			}
		}
	}

	for _, msg := range rec.Messages() {
		c := yellow
		if msg.Kind == autodetect.MessageError {
			c = red
		}
		c.Fprintf(w, "    %s ", strings.ToUpper(msg.Kind.String()))
		fmt.Fprintf(w, "%s: %v\n", msg.Source, msg.Err)
	}

	bound := src.Endpoint().Target()
	fmt.Fprintln(w)
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Bound:     %s", bound.Name())
	if element.IsPlaceholder(bound) {
		yellow.Fprint(w, " [placeholder]")
	}
	fmt.Fprintln(w)
	green.Fprint(w, "    ▶ ")
	fmt.Fprintf(w, "Caps:      %s\n", src.Endpoint().Caps())
}
