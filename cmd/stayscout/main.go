// cmd/stayscout/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/browser"
	"github.com/stayscout/stayscout/internal/config"
	"github.com/stayscout/stayscout/internal/detect"
	"github.com/stayscout/stayscout/internal/engines"
	"github.com/stayscout/stayscout/internal/logging"
	"github.com/stayscout/stayscout/internal/monitoring"
	"github.com/stayscout/stayscout/internal/output"
	"github.com/stayscout/stayscout/internal/pipeline"
	"github.com/stayscout/stayscout/internal/probe"
	"github.com/stayscout/stayscout/pkg/types"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: stayscout run <config.yaml>\n")
			os.Exit(1)
		}
		if err := runDetection(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: stayscout validate <config.yaml>\n")
			os.Exit(1)
		}
		if _, err := config.Load(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration file '%s' is valid\n", os.Args[2])

	case "template":
		fmt.Print(config.Template())

	case "export":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: stayscout export <config.yaml> [postgres|mysql|mongo|excel]\n")
			os.Exit(1)
		}
		target := ""
		if len(os.Args) > 3 {
			target = os.Args[3]
		}
		if err := runExport(os.Args[2], target); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version", "--version", "-v":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runDetection is the main entrypoint: load config, start the browser, and
// run the pipeline over the input file.
func runDetection(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Console)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := engines.DefaultTable()
	if cfg.Detection.PatternOverlay != "" {
		table, err = engines.LoadOverlay(table, cfg.Detection.PatternOverlay)
		if err != nil {
			return fmt.Errorf("failed to load pattern overlay: %w", err)
		}
	}
	matcher := engines.NewMatcher(table)

	manager, err := output.NewManager(cfg.Output, log)
	if err != nil {
		return err
	}
	defer manager.Close()

	metrics := monitoring.NewMetrics()
	if cfg.Monitoring.Addr != "" {
		monitoring.NewServer(cfg.Monitoring.Addr, metrics, manager.Store(), log).Start(ctx)
	}

	b, err := browser.New(ctx, browser.Options{
		Headless:  cfg.Browser.Headless,
		UserAgent: cfg.Browser.UserAgent,
	}, browser.Timeouts{
		Nav:        cfg.Detection.NavTimeout.Std(),
		NavRetry:   cfg.Detection.NavRetryTimeout.Std(),
		Settle:     cfg.Detection.SettleDelay.Std(),
		PopupWait:  cfg.Detection.PopupWait.Std(),
		WidgetWait: cfg.Detection.WidgetWait.Std(),
	}, log)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer b.Close()

	pool := browser.NewPool(b, cfg.Browser.PoolSize)
	defer pool.Close()

	finder := detect.NewButtonFinder(matcher, cfg.Detection.MaxButtons)
	activator := detect.NewActivator(finder, log)
	scanner := detect.NewScanner(matcher, engines.NewKeywordScanner())
	orchestrator := detect.NewOrchestrator(matcher, scanner, activator, log)

	detector := pipeline.NewBrowserDetector(pool, orchestrator, log)
	prober := probe.New(cfg.Detection.PrecheckTimeout.Std())

	runner := pipeline.NewRunner(cfg, detector, prober, manager, metrics, log)
	_, err = runner.Run(ctx)
	return err
}

// runExport pushes the stored results into the configured sinks. An empty
// target exports to everything the config names.
func runExport(configFile, target string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Console)

	store, err := output.OpenStore(cfg.Output.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := store.All(ctx)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("store %q has no results to export", cfg.Output.StorePath)
	}

	exported := 0
	wants := func(name string) bool { return target == "" || target == name }

	if wants("excel") && cfg.Output.ExcelPath != "" {
		w, err := output.NewExcelWriter(cfg.Output.ExcelPath)
		if err != nil {
			return err
		}
		if err := w.WriteAll(results); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Output.ExcelPath).Int("rows", len(results)).Msg("exported to Excel")
		exported++
	}

	if wants("postgres") && cfg.Output.PostgresDSN != "" {
		if err := exportPostgres(ctx, cfg, results, log); err != nil {
			return err
		}
		exported++
	}

	if wants("mysql") && cfg.Output.MySQLDSN != "" {
		if err := exportMySQL(ctx, cfg, results, log); err != nil {
			return err
		}
		exported++
	}

	if wants("mongo") && cfg.Output.MongoURI != "" {
		if err := exportMongo(ctx, cfg, results, log); err != nil {
			return err
		}
		exported++
	}

	if exported == 0 {
		if target != "" {
			return fmt.Errorf("no %q sink configured", target)
		}
		return fmt.Errorf("no export sinks configured")
	}
	return nil
}

func exportPostgres(ctx context.Context, cfg *config.Config, results []types.DetectionResult, log zerolog.Logger) error {
	sink, err := output.NewPostgresSink(cfg.Output.PostgresDSN, "")
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.Export(ctx, results); err != nil {
		return err
	}
	log.Info().Int("rows", len(results)).Msg("exported to PostgreSQL")
	return nil
}

func exportMySQL(ctx context.Context, cfg *config.Config, results []types.DetectionResult, log zerolog.Logger) error {
	sink, err := output.NewMySQLSink(cfg.Output.MySQLDSN, "")
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.Export(ctx, results); err != nil {
		return err
	}
	log.Info().Int("rows", len(results)).Msg("exported to MySQL")
	return nil
}

func exportMongo(ctx context.Context, cfg *config.Config, results []types.DetectionResult, log zerolog.Logger) error {
	sink, err := output.NewMongoSink(ctx, cfg.Output.MongoURI, cfg.Output.MongoDatabase, cfg.Output.MongoCollection)
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.Export(ctx, results); err != nil {
		return err
	}
	log.Info().Int("rows", len(results)).Msg("exported to MongoDB")
	return nil
}

// printUsage displays help information
func printUsage() {
	fmt.Println("StayScout - Hotel Booking Engine Detection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  stayscout run <config.yaml>               Run detection over the input file")
	fmt.Println("  stayscout validate <config.yaml>          Validate configuration file")
	fmt.Println("  stayscout template                        Print a configuration template")
	fmt.Println("  stayscout export <config.yaml> [target]   Export stored leads (postgres|mysql|mongo|excel)")
	fmt.Println("  stayscout version                         Show version information")
	fmt.Println("  stayscout help                            Show this help message")
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("StayScout %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
