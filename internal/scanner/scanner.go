package scanner

import (
	"context"
	"sync"

	"github.com/digimosa/dsp-scorecard/internal/config"
	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/kpi"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/reporting"
	"github.com/digimosa/dsp-scorecard/internal/scorecard"
	"github.com/digimosa/dsp-scorecard/internal/storage"
)

// Loader opens a scorecard file as a page source.
type Loader func(path string) (extractor.PageSource, error)

// Recorder persists successful extractions.
type Recorder interface {
	SaveScorecard(filename string, data *models.ScoreCardData) (*storage.ScorecardModel, error)
}

// Scanner extracts every scorecard PDF below a directory with a worker pool.
type Scanner struct {
	cfg     *config.Config
	engine  *scorecard.Engine
	jobs    chan models.Job
	results chan models.ScanResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	Report  *reporting.Report

	// Load defaults to extractor.LoadFile.
	Load Loader
	// Targets, when set, supplies target overrides to every extraction.
	Targets kpi.TargetRepository
	// Recorder, when set, stores each extracted scorecard.
	Recorder Recorder
}

func NewScanner(cfg *config.Config) *Scanner {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scanner{
		cfg:     cfg,
		engine:  scorecard.New(),
		jobs:    make(chan models.Job, cfg.Workers*4),
		results: make(chan models.ScanResult, cfg.Workers*4),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		Report:  reporting.NewReport(),
		Load: func(path string) (extractor.PageSource, error) {
			return extractor.LoadFile(path)
		},
	}
	s.Report.Summary.RootPath = cfg.RootPath
	return s
}

// Start launches the workers, the result processor and the file walker.
func (s *Scanner) Start() {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	go s.processResults()

	go s.walkFiles()
}

// Wait blocks until every file has been processed.
func (s *Scanner) Wait() {
	s.wg.Wait()
	close(s.results)
	<-s.done
}

// Stop cancels outstanding work; Wait still has to be called.
func (s *Scanner) Stop() {
	s.cancel()
}
