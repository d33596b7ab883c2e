package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// ErrNotFound is returned when a scorecard id is unknown.
var ErrNotFound = errors.New("not found")

type ScorecardModel struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Filename      string    `json:"filename"`
	Week          int       `json:"week"`
	Year          int       `json:"year"`
	Location      string    `json:"location"`
	OverallScore  float64   `json:"overall_score"`
	OverallStatus string    `json:"overall_status"`
	Rank          int       `json:"rank"`
	DriverCount   int       `json:"driver_count"`
	IsSampleData  bool      `json:"is_sample_data"`
	Degraded      bool      `json:"degraded"`
	Data          string    `json:"-"` // ScoreCardData as JSON
	CreatedAt     time.Time `json:"created_at"`
}

type TargetModel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	KPIName       string    `gorm:"index" json:"kpi_name"`
	Value         float64   `json:"value"`
	EffectiveWeek *int      `json:"effective_week,omitempty"`
	EffectiveYear *int      `json:"effective_year,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists extracted scorecards and user target overrides.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&ScorecardModel{}, &TargetModel{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveScorecard stores data under a new id.
func (s *Store) SaveScorecard(filename string, data *models.ScoreCardData) (*ScorecardModel, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode scorecard: %w", err)
	}
	m := &ScorecardModel{
		ID:            uuid.NewString(),
		Filename:      filename,
		Week:          data.Week,
		Year:          data.Year,
		Location:      data.Location,
		OverallScore:  data.OverallScore,
		OverallStatus: data.OverallStatus,
		Rank:          data.Rank,
		DriverCount:   len(data.DriverKPIs),
		IsSampleData:  data.IsSampleData,
		Degraded:      data.Degraded(),
		Data:          string(raw),
		CreatedAt:     time.Now(),
	}
	if err := s.db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("save scorecard: %w", err)
	}
	return m, nil
}

// ListScorecards returns summaries, newest first.
func (s *Store) ListScorecards() ([]ScorecardModel, error) {
	var out []ScorecardModel
	err := s.db.Omit("Data").Order("created_at desc").Find(&out).Error
	return out, err
}

// GetScorecard returns the stored record and its decoded data.
func (s *Store) GetScorecard(id string) (*ScorecardModel, *models.ScoreCardData, error) {
	var m ScorecardModel
	err := s.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("scorecard %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	var data models.ScoreCardData
	if err := json.Unmarshal([]byte(m.Data), &data); err != nil {
		return nil, nil, fmt.Errorf("decode scorecard %s: %w", id, err)
	}
	return &m, &data, nil
}

// AddTarget appends a target override. Later overrides win ties.
func (s *Store) AddTarget(o models.TargetOverride) error {
	if o.KPIName == "" {
		return errors.New("target override needs a kpi name")
	}
	t := TargetModel{
		KPIName:       o.KPIName,
		Value:         o.Value,
		EffectiveWeek: o.EffectiveWeek,
		EffectiveYear: o.EffectiveYear,
		CreatedAt:     time.Now(),
	}
	return s.db.Create(&t).Error
}

// TargetOverrides returns all overrides in insertion order.
func (s *Store) TargetOverrides() ([]models.TargetOverride, error) {
	var rows []TargetModel
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load target overrides: %w", err)
	}
	out := make([]models.TargetOverride, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TargetOverride{
			KPIName:       r.KPIName,
			Value:         r.Value,
			EffectiveWeek: r.EffectiveWeek,
			EffectiveYear: r.EffectiveYear,
		})
	}
	return out, nil
}
