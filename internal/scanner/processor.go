package scanner

import (
	"fmt"
	"os"
	"time"

	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/scorecard"
)

// extractFile loads and extracts a single scorecard.
func (s *Scanner) extractFile(path string) models.ScanResult {
	start := time.Now()
	res := models.ScanResult{
		FilePath:  path,
		Timestamp: start,
	}

	info, err := os.Stat(path)
	if err != nil {
		return failed(res, err, "stat")
	}
	res.Size = info.Size()

	doc, err := s.Load(path)
	if err != nil {
		return failed(res, err, "load")
	}

	data, err := s.engine.Extract(s.ctx, doc, scorecard.Options{
		Filename:     path,
		Verbose:      s.cfg.Verbose,
		Targets:      s.Targets,
		CompanyPages: s.cfg.CompanyPages,
	})
	if err != nil {
		return failed(res, err, "extract")
	}
	res.ScoreCard = data

	if s.Recorder != nil {
		if _, err := s.Recorder.SaveScorecard(path, data); err != nil {
			return failed(res, err, "store")
		}
	}

	res.ScanTime = time.Since(start)
	return res
}

func failed(res models.ScanResult, err error, stage string) models.ScanResult {
	res.Error = err
	res.ErrorMsg = fmt.Sprintf("%s failed: %v", stage, err)
	return res
}

func (s *Scanner) processResults() {
	count := 0
	start := time.Now()

	for res := range s.results {
		count++
		s.Report.AddResult(res)

		if res.Error != nil {
			fmt.Printf("[ERROR] %s: %s\n", res.FilePath, res.ErrorMsg)
			continue
		}
		sc := res.ScoreCard
		fmt.Printf("[DONE] %s: week %d/%d, %d drivers, %d company KPIs\n", res.FilePath, sc.Week, sc.Year, len(sc.DriverKPIs), len(sc.CompanyKPIs))
		if sc.IsSampleData {
			fmt.Printf("  - no driver rows found, sample data shown\n")
		}

		if count%100 == 0 {
			fmt.Printf("Processed %d files... (Rate: %.2f files/sec)\n", count, float64(count)/time.Since(start).Seconds())
		}
	}
	s.Report.Finalize()
	close(s.done)
}
