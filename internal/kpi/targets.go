package kpi

import (
	"strings"

	"github.com/digimosa/dsp-scorecard/internal/models"
)

// TargetRepository supplies user-configured target overrides. It is read once
// per extraction.
type TargetRepository interface {
	TargetOverrides() ([]models.TargetOverride, error)
}

// StaticTargets is an in-memory TargetRepository.
type StaticTargets []models.TargetOverride

func (s StaticTargets) TargetOverrides() ([]models.TargetOverride, error) {
	return append([]models.TargetOverride(nil), s...), nil
}

// Period is the scorecard week the overrides are resolved against. A zero
// Year means the period is unknown and every override applies.
type Period struct {
	Week int
	Year int
}

func (p Period) key() int {
	return p.Year*100 + p.Week
}

func overrideKey(o models.TargetOverride) int {
	if !o.Dated() {
		return -1
	}
	k := 0
	if o.EffectiveYear != nil {
		k = *o.EffectiveYear * 100
	}
	if o.EffectiveWeek != nil {
		k += *o.EffectiveWeek
	}
	return k
}

// effective reports whether o is in force for period p.
func effective(o models.TargetOverride, p Period) bool {
	if !o.Dated() || p.Year == 0 {
		return true
	}
	return overrideKey(o) <= p.key()
}

// matchesKPI compares an override name with a definition name or code,
// ignoring case and spacing.
func matchesKPI(name string, def models.KPIDefinition) bool {
	n := canonicalName(name)
	if n == "" {
		return false
	}
	return n == canonicalName(def.Name) || (def.Code != "" && n == canonicalName(def.Code))
}

func canonicalName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ResolveTarget returns the target for def in period p. The built-in override
// is considered first, then user overrides in order; among those in force the
// most recent effective date wins and later entries win ties.
func ResolveTarget(def models.KPIDefinition, user []models.TargetOverride, p Period) float64 {
	target := def.Target
	best := -2

	candidates := make([]models.TargetOverride, 0, len(user)+1)
	if def.Override != nil {
		candidates = append(candidates, *def.Override)
	}
	candidates = append(candidates, user...)

	for _, o := range candidates {
		if !matchesKPI(o.KPIName, def) || !effective(o, p) {
			continue
		}
		if k := overrideKey(o); k >= best {
			best = k
			target = o.Value
		}
	}
	return target
}

// Chain concatenates repositories in order, so later repositories win ties.
type Chain []TargetRepository

func (c Chain) TargetOverrides() ([]models.TargetOverride, error) {
	var out []models.TargetOverride
	for _, repo := range c {
		if repo == nil {
			continue
		}
		list, err := repo.TargetOverrides()
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}
