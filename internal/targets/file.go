// Package targets stores KPI target overrides in a plain file.
package targets

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// File is a file backed target override list. Files ending in .yaml or .yml
// hold a YAML document; anything else uses one override per line:
//
//	DCR = 99
//	Photo-On-Delivery (POD) = 98.5 @ 2025-W20
//	CC = 96 @ W30
type File struct {
	mu    sync.RWMutex
	items []models.TargetOverride
	path  string
}

type yamlDoc struct {
	Targets []models.TargetOverride `yaml:"targets"`
}

// Open creates or loads an override file. A missing file starts empty.
func Open(path string) (*File, error) {
	f := &File{path: path}
	if err := f.load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(f.path))
	return ext == ".yaml" || ext == ".yml"
}

func (f *File) load() error {
	if f.isYAML() {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return err
		}
		var doc yamlDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", f.path, err)
		}
		f.items = doc.Targets
		return nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		o, err := ParseLine(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", f.path, lineNo, err)
		}
		f.items = append(f.items, o)
	}
	return scanner.Err()
}

var effectiveSuffix = regexp.MustCompile(`^(?:(\d{4})(?:-?W(\d{1,2}))?|W(\d{1,2}))$`)

// ParseLine reads "name = value [@ YYYY-Www | YYYY | Www]".
func ParseLine(line string) (models.TargetOverride, error) {
	var o models.TargetOverride
	rest := line
	when := ""
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		when = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}
	i := strings.LastIndex(rest, "=")
	if i < 0 {
		return o, fmt.Errorf("missing '=' in %q", line)
	}
	o.KPIName = strings.TrimSpace(rest[:i])
	if o.KPIName == "" {
		return o, fmt.Errorf("missing kpi name in %q", line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rest[i+1:]), 64)
	if err != nil {
		return o, fmt.Errorf("bad target value in %q: %w", line, err)
	}
	o.Value = v

	if when != "" {
		m := effectiveSuffix.FindStringSubmatch(strings.ToUpper(when))
		if m == nil {
			return o, fmt.Errorf("bad effective date %q", when)
		}
		if m[1] != "" {
			year, _ := strconv.Atoi(m[1])
			o.EffectiveYear = &year
		}
		if w := m[2] + m[3]; w != "" {
			week, _ := strconv.Atoi(w)
			o.EffectiveWeek = &week
		}
	}
	return o, nil
}

// FormatLine is the inverse of ParseLine.
func FormatLine(o models.TargetOverride) string {
	line := fmt.Sprintf("%s = %s", o.KPIName, strconv.FormatFloat(o.Value, 'f', -1, 64))
	switch {
	case o.EffectiveYear != nil && o.EffectiveWeek != nil:
		line += fmt.Sprintf(" @ %d-W%02d", *o.EffectiveYear, *o.EffectiveWeek)
	case o.EffectiveYear != nil:
		line += fmt.Sprintf(" @ %d", *o.EffectiveYear)
	case o.EffectiveWeek != nil:
		line += fmt.Sprintf(" @ W%02d", *o.EffectiveWeek)
	}
	return line
}

// TargetOverrides returns the overrides in file order.
func (f *File) TargetOverrides() ([]models.TargetOverride, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.TargetOverride(nil), f.items...), nil
}

// Add appends an override and persists it to disk.
func (f *File) Add(o models.TargetOverride) error {
	o.KPIName = strings.TrimSpace(o.KPIName)
	if o.KPIName == "" {
		return errors.New("target override needs a kpi name")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.isYAML() {
		items := append(append([]models.TargetOverride(nil), f.items...), o)
		data, err := yaml.Marshal(yamlDoc{Targets: items})
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.path, data, 0644); err != nil {
			return err
		}
		f.items = items
		return nil
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(FormatLine(o) + "\n"); err != nil {
		return err
	}
	f.items = append(f.items, o)
	return nil
}
