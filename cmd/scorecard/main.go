package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/digimosa/dsp-scorecard/internal/config"
	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/kpi"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/reporting"
	"github.com/digimosa/dsp-scorecard/internal/scanner"
	"github.com/digimosa/dsp-scorecard/internal/scorecard"
	"github.com/digimosa/dsp-scorecard/internal/server"
	"github.com/digimosa/dsp-scorecard/internal/storage"
	"github.com/digimosa/dsp-scorecard/internal/targets"
)

func main() {
	// Parse CLI flags
	file := flag.String("file", "", "Extract a single scorecard PDF")
	dir := flag.String("dir", "", "Extract every scorecard PDF below this directory")
	workers := flag.Int("workers", 0, "Number of concurrent workers (default: auto)")
	configPath := flag.String("config", "", "YAML config file")
	dbPath := flag.String("db", "", "SQLite database for scorecards and targets")
	targetsPath := flag.String("targets", "", "Target override file (.yaml, .txt, .xlsx or .xls)")
	jsonFile := flag.String("json", "scorecard_report.json", "JSON report file (empty to skip)")
	htmlFile := flag.String("html", "scorecard_report.html", "HTML report file (empty to skip)")
	xlsxFile := flag.String("xlsx", "", "Excel report file (empty to skip)")
	serve := flag.Bool("serve", false, "Start the upload server")
	port := flag.String("port", "", "Port for the upload server (default from config)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.RootPath = *dir
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *targetsPath != "" {
		cfg.TargetsPath = *targetsPath
	}
	if *port != "" {
		cfg.Address = ":" + *port
	}
	cfg.Verbose = cfg.Verbose || *verbose

	// Initialize Storage
	fmt.Printf("Initializing database at: %s\n", cfg.DBPath)
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	repo, targetFile, err := openTargets(cfg.TargetsPath, store)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load targets: %v\n", err)
		os.Exit(1)
	}

	var report *reporting.Report
	switch {
	case *file != "":
		report, err = extractOne(cfg, *file, repo, store)
		if err != nil {
			fmt.Printf("[ERROR] %s: %v\n", *file, err)
			os.Exit(1)
		}
	case cfg.RootPath != "":
		report = scanDir(cfg, repo, store)
	}

	if report != nil {
		saveReports(cfg, report, *jsonFile, *htmlFile, *xlsxFile)
	}

	// Server Mode: Start upload API and dashboard
	if *serve {
		srv := server.NewServer(cfg, store, repo)
		if targetFile != nil {
			srv.TargetFile = targetFile
		}
		fmt.Printf("\n[SERVER] Starting scorecard server at http://localhost%s\n", cfg.Address)
		fmt.Println("Press Ctrl+C to stop")
		if err := srv.Start(cfg.Address); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	} else if report == nil {
		// No action specified
		fmt.Println("No action specified.")
		fmt.Println("Use -file or -dir to extract scorecards.")
		fmt.Println("Use -serve to start the upload server.")
		flag.PrintDefaults()
	}
}

// openTargets chains the target file, if any, with the database so overrides
// stored later win ties. A line or YAML file is also returned so the server
// can write to it; spreadsheets are read-only.
func openTargets(path string, store *storage.Store) (kpi.TargetRepository, *targets.File, error) {
	if path == "" {
		return store, nil, nil
	}
	var load func(string) ([]models.TargetOverride, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		load = targets.LoadXLSX
	case ".xls":
		load = targets.LoadXLS
	}
	if load != nil {
		list, err := load(path)
		if err != nil {
			return nil, nil, err
		}
		fmt.Printf("Loaded %d target overrides from %s\n", len(list), path)
		return kpi.Chain{kpi.StaticTargets(list), store}, nil, nil
	}
	f, err := targets.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return kpi.Chain{f, store}, f, nil
}

func extractOne(cfg *config.Config, path string, repo kpi.TargetRepository, store *storage.Store) (*reporting.Report, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	doc, err := extractor.LoadFile(path)
	if err != nil {
		return nil, err
	}

	data, err := scorecard.New().Extract(ctx, doc, scorecard.Options{
		Filename:     path,
		Verbose:      cfg.Verbose,
		Targets:      repo,
		CompanyPages: cfg.CompanyPages,
	})
	if err != nil {
		return nil, err
	}

	m, err := store.SaveScorecard(path, data)
	if err != nil {
		return nil, err
	}

	fmt.Printf("[DONE] %s: week %d/%d, station %q, %d drivers, %d company KPIs (%s)\n",
		path, data.Week, data.Year, data.Location, len(data.DriverKPIs), len(data.CompanyKPIs), time.Since(start))
	if data.IsSampleData {
		fmt.Println("  - no driver rows found, sample data shown")
	}
	fmt.Printf("Stored as %s\n", m.ID)

	return reporting.ForScorecard(path, data), nil
}

func scanDir(cfg *config.Config, repo kpi.TargetRepository, store *storage.Store) *reporting.Report {
	fmt.Printf("Starting scorecard extraction on: %s\n", cfg.RootPath)
	fmt.Printf("Workers: %d\n", cfg.Workers)

	start := time.Now()

	s := scanner.NewScanner(cfg)
	s.Targets = repo
	s.Recorder = store

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	go func() {
		if _, ok := <-sig; ok {
			fmt.Println("\nInterrupted, finishing current files...")
			s.Stop()
		}
	}()

	// The Start method runs the walker and workers in background
	s.Start()
	s.Wait()

	sum := s.Report.Summary
	fmt.Printf("\nExtraction complete in %s\n", time.Since(start))
	fmt.Printf("Files: %d, extracted: %d, failed: %d, sample data: %d, drivers: %d\n",
		sum.TotalFiles, sum.Extracted, sum.Failed, sum.SampleData, sum.TotalDrivers)
	return s.Report
}

func saveReports(cfg *config.Config, report *reporting.Report, jsonFile, htmlFile, xlsxFile string) {
	out := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(cfg.OutputDir, name)
	}

	if jsonFile != "" {
		if err := report.SaveJSON(out(jsonFile)); err != nil {
			fmt.Printf("Error saving JSON report: %v\n", err)
		} else {
			fmt.Printf("JSON report saved to: %s\n", out(jsonFile))
		}
	}

	if htmlFile != "" {
		if err := report.SaveHTML(out(htmlFile)); err != nil {
			fmt.Printf("Error saving HTML report: %v\n", err)
		} else {
			fmt.Printf("HTML report saved to: %s\n", out(htmlFile))
		}
	}

	if xlsxFile != "" {
		if err := report.SaveXLSX(out(xlsxFile)); err != nil {
			fmt.Printf("Error saving Excel report: %v\n", err)
		} else {
			fmt.Printf("Excel report saved to: %s\n", out(xlsxFile))
		}
	}
}
