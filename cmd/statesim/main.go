// Command statesim runs the turn-based macroeconomic world simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/statecraft/internal/api"
	"github.com/talgya/statecraft/internal/params"
	"github.com/talgya/statecraft/internal/persistence"
	"github.com/talgya/statecraft/internal/scenario"
	"github.com/talgya/statecraft/internal/world"
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario JSON file (default: built-in four-economy world)")
		paramsPath   = flag.String("params", "", "calibration YAML overriding the defaults")
		turns        = flag.Int("turns", 0, "quarters to simulate (default: calibration max_turns)")
		seed         = flag.Uint64("seed", 42, "run seed; same seed and scenario replays identically")
		dbPath       = flag.String("db", "data/statecraft.db", "run history database path, empty disables")
		serve        = flag.Bool("serve", false, "serve the HTTP API instead of auto-running turns")
		port         = flag.Int("port", 8080, "HTTP API port")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	p := params.Default()
	if *paramsPath != "" {
		var err error
		if p, err = params.Load(*paramsPath); err != nil {
			slog.Error("failed to load calibration", "error", err)
			os.Exit(1)
		}
	}

	doc := scenario.Default()
	if *scenarioPath != "" {
		var err error
		if doc, err = scenario.LoadFile(*scenarioPath); err != nil {
			slog.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
	}
	st, err := scenario.Build(p, doc)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}
	slog.Info("world initialized",
		"scenario", doc.Name,
		"player", st.PlayerISO,
		"countries", len(st.Countries),
		"seed", *seed,
	)

	var db *persistence.DB
	var runID int64
	if *dbPath != "" {
		os.MkdirAll(filepath.Dir(*dbPath), 0755)
		if db, err = persistence.Open(*dbPath); err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if runID, err = db.CreateRun(doc.Name, st.PlayerISO, *seed); err != nil {
			slog.Error("failed to create run", "error", err)
			os.Exit(1)
		}
		slog.Info("database opened", "path", *dbPath, "run", runID)
	}

	session := api.NewSession(p, st, *seed)
	session.DB = db
	session.RunID = runID

	if *serve {
		server := &api.Server{Session: session, Port: *port}
		server.Start()
		slog.Info("serving, press ctrl-c to stop")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		saveSnapshot(db, runID, session.State())
		return
	}

	maxTurns := p.MaxTurns
	if *turns > 0 {
		maxTurns = *turns
	}
	for i := 0; i < maxTurns; i++ {
		sum, err := session.AdvanceTurn(nil)
		if err != nil {
			slog.Error("turn failed", "turn", i+1, "error", err)
			os.Exit(1)
		}
		reportTurn(session.State(), sum.Turn, sum.GDPChange, len(sum.Events))
		for _, w := range sum.Warnings {
			slog.Warn("turn warning", "turn", sum.Turn, "detail", w)
		}
	}
	saveSnapshot(db, runID, session.State())
	reportStandings(session.State())
}

func saveSnapshot(db *persistence.DB, runID int64, st *world.State) {
	if db == nil {
		return
	}
	if err := db.SaveSnapshot(runID, st); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	}
}

// reportTurn logs the player's quarterly picture.
func reportTurn(st *world.State, turn int, gdpChange float64, events int) {
	c := st.Player()
	slog.Info("quarter closed",
		"turn", turn,
		"gdp", humanize.CommafWithDigits(c.GDP, 1),
		"gdp_change", humanize.CommafWithDigits(gdpChange, 2),
		"unemployment", fmt.Sprintf("%.1f%%", c.Unemployment*100),
		"inflation", fmt.Sprintf("%.2f%%", c.Inflation*100),
		"trust", fmt.Sprintf("%.1f", c.Trust),
		"events", events,
	)
}

// reportStandings prints the final scoreboard.
func reportStandings(st *world.State) {
	slog.Info("final standings", "turn", st.Turn)
	for _, iso := range st.SortedISOCodes() {
		c := st.Country(iso)
		status := "active"
		if !c.Active {
			status = "collapsed"
		}
		slog.Info("standing",
			"country", iso,
			"gdp", humanize.CommafWithDigits(c.GDP, 1),
			"debt", humanize.CommafWithDigits(c.Debt, 1),
			"trust", fmt.Sprintf("%.1f", c.Trust),
			"status", status,
		)
	}
}
