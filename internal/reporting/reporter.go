package reporting

import (
	"encoding/json"
	"html/template"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/templates"
)

type Summary struct {
	TotalFiles   int64         `json:"total_files"`
	Extracted    int64         `json:"extracted"`
	Failed       int64         `json:"failed"`
	SampleData   int64         `json:"sample_data"`
	Degraded     int64         `json:"degraded"`
	TotalDrivers int64         `json:"total_drivers"`
	ScanDuration time.Duration `json:"scan_duration"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	RootPath     string        `json:"root_path"`
}

type Report struct {
	Summary Summary             `json:"summary"`
	Results []models.ScanResult `json:"results"`
	mu      sync.Mutex
}

func NewReport() *Report {
	return &Report{
		Summary: Summary{
			StartTime: time.Now(),
		},
		Results: make([]models.ScanResult, 0),
	}
}

// ForScorecard wraps a single extraction in a finalized report.
func ForScorecard(name string, data *models.ScoreCardData) *Report {
	r := NewReport()
	r.AddResult(models.ScanResult{FilePath: name, ScoreCard: data, Timestamp: r.Summary.StartTime})
	r.Finalize()
	return r
}

func (r *Report) AddResult(res models.ScanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Summary.TotalFiles++
	if res.Error != nil || res.ScoreCard == nil {
		r.Summary.Failed++
	} else {
		r.Summary.Extracted++
		r.Summary.TotalDrivers += int64(len(res.ScoreCard.DriverKPIs))
		if res.ScoreCard.IsSampleData {
			r.Summary.SampleData++
		}
		if res.ScoreCard.Degraded() {
			r.Summary.Degraded++
		}
	}
	r.Results = append(r.Results, res)
}

// Finalize stamps the end time and orders results by path, so reports do
// not depend on worker scheduling.
func (r *Report) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Summary.EndTime = time.Now()
	r.Summary.ScanDuration = r.Summary.EndTime.Sub(r.Summary.StartTime)
	sort.SliceStable(r.Results, func(i, j int) bool {
		return r.Results[i].FilePath < r.Results[j].FilePath
	})
}

func (r *Report) SaveJSON(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return r.WriteJSON(file)
}

func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

func (r *Report) SaveHTML(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return r.RenderHTML(file)
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"marshal": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
	"statusClass": func(s models.Status) string {
		return strings.ReplaceAll(string(s), " ", "-")
	},
	"categories": func() []models.Category {
		return models.Categories
	},
}).Parse(templates.ReportHTML))

func (r *Report) RenderHTML(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
