package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/eodozzy/real-estate-investment-manager/internal/analyzer"
	"github.com/eodozzy/real-estate-investment-manager/internal/cache"
	"github.com/eodozzy/real-estate-investment-manager/internal/config"
	"github.com/eodozzy/real-estate-investment-manager/internal/engine"
	"github.com/eodozzy/real-estate-investment-manager/internal/porter"
	"github.com/eodozzy/real-estate-investment-manager/internal/portfolio"
	"github.com/eodozzy/real-estate-investment-manager/internal/reporter"
	"github.com/eodozzy/real-estate-investment-manager/internal/scheduler"
	"github.com/eodozzy/real-estate-investment-manager/internal/store"
)

const usage = `usage: reim <command> [args]

commands:
  import <file.csv>        bulk import properties
  export <file.csv>        export all properties
  schedule <id> <file.csv> export a property's amortization table
  analyze <id> [year]      four-pillars analysis (default year 1)
  project <id> <years>     multi-year projection
  portfolio                owned-portfolio status
  recompute                refresh all cached analysis rows now
  serve                    run the recompute scheduler as a daemon
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init: %v", err)
	}
	defer app.store.Close()

	if err := app.run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("[FATAL] %s: %v", os.Args[1], err)
	}
}

type app struct {
	cfg       *config.Config
	store     store.Store
	analyzer  *analyzer.Analyzer
	portfolio *portfolio.Manager
}

func newApp(cfg *config.Config) (*app, error) {
	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.Cache.RedisAddr)
		if err := rc.Ping(context.Background()); err != nil {
			log.Printf("[WARN] redis unreachable, using in-memory cache: %v", err)
			c = cache.NewMemoryCache()
		} else {
			log.Printf("[INFO] analysis cache: redis at %s", cfg.Cache.RedisAddr)
			c = rc
		}
	} else {
		c = cache.NewMemoryCache()
	}

	as := engine.Assumptions{
		MarginalTaxRate:       cfg.Analysis.MarginalTaxRate,
		DepreciationLifeYears: cfg.Analysis.DepreciationLifeYears,
		LandPct:               cfg.Analysis.LandPct,
		AppreciationRate:      cfg.Analysis.AppreciationRate,
	}

	pm, err := portfolio.NewManager(cfg.Portfolio.StateFile, st, as)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("init portfolio: %w", err)
	}

	return &app{
		cfg:       cfg,
		store:     st,
		analyzer:  analyzer.New(st, c, as),
		portfolio: pm,
	}, nil
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "import":
		return a.importCSV(args)
	case "export":
		return a.exportCSV(args)
	case "schedule":
		return a.exportSchedule(args)
	case "analyze":
		return a.analyze(args)
	case "project":
		return a.project(args)
	case "portfolio":
		return a.portfolioStatus()
	case "recompute":
		return a.recompute()
	case "serve":
		return a.serve()
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) importCSV(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reim import <file.csv>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := porter.ImportProperties(f)
	if err != nil {
		return err
	}
	for _, p := range result.Properties {
		if err := a.store.SaveProperty(p); err != nil {
			return fmt.Errorf("save %s: %w", p.Address, err)
		}
	}

	skipErrs := make([]error, len(result.Skipped))
	for i, s := range result.Skipped {
		skipErrs[i] = s
	}
	fmt.Print(reporter.FormatImportSummary(len(result.Properties), len(result.Skipped), skipErrs))

	computed, failed := a.analyzer.RecomputeAll(context.Background())
	log.Printf("[INFO] post-import recompute: %d computed, %d failed", computed, failed)
	return nil
}

func (a *app) exportCSV(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reim export <file.csv>")
	}
	props, err := a.store.ListProperties("")
	if err != nil {
		return err
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := porter.ExportProperties(f, props); err != nil {
		return err
	}
	log.Printf("[INFO] exported %d properties to %s", len(props), args[0])
	return nil
}

func (a *app) exportSchedule(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: reim schedule <id> <file.csv>")
	}
	prop, err := a.store.GetProperty(args[0])
	if err != nil {
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()
	return porter.ExportSchedule(f, prop.Loan)
}

func (a *app) analyze(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: reim analyze <id> [year]")
	}
	year := 1
	if len(args) == 2 {
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", args[1], err)
		}
		year = y
	}
	prop, err := a.store.GetProperty(args[0])
	if err != nil {
		return err
	}
	res, err := a.analyzer.AnalyzeProperty(context.Background(), args[0], year)
	if err != nil {
		return err
	}
	fmt.Print(reporter.FormatAnalysisReport(prop, res))
	return nil
}

func (a *app) project(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: reim project <id> <years>")
	}
	years, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid years %q: %w", args[1], err)
	}
	prop, err := a.store.GetProperty(args[0])
	if err != nil {
		return err
	}
	results, err := a.analyzer.Project(args[0], years)
	if err != nil {
		return err
	}
	fmt.Print(reporter.FormatProjectionTable(prop, results))
	return nil
}

func (a *app) portfolioStatus() error {
	state, err := a.portfolio.Refresh()
	if err != nil {
		return err
	}
	fmt.Print(reporter.FormatPortfolioStatus(&state))
	return nil
}

func (a *app) recompute() error {
	computed, failed := a.analyzer.RecomputeAll(context.Background())
	log.Printf("[INFO] recompute done: %d computed, %d failed", computed, failed)
	_, err := a.portfolio.Refresh()
	return err
}

func (a *app) serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.analyzer, a.portfolio)
	if err := sched.Register(a.cfg.Schedule.RecomputeCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing recompute now")
		go sched.RunNow()
	}

	log.Println("[INFO] reim is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}
