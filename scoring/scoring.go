// Package scoring reduces a series and its indicators to a bounded integer
// score and a discrete trend label through an ordered, non-commutative rule
// chain. Rule order matters and must not be reordered.
package scoring

import (
	"protrader/config"
	"protrader/indicators"
	"protrader/models"
)

const baseScore = 50

// Snapshot is the frozen view of technical posture the rules evaluate
// against. Rules never read the series directly, so no rule can observe a
// value mutated by an earlier rule.
type Snapshot struct {
	Close      float64
	PrevClose  float64
	HasPrev    bool
	Volume     int64
	ShortMA    *float64
	LongMA     *float64
	VolumeMA5  *float64
	SurgeRatio float64
}

// Rule is one (predicate, delta) pair of the chain.
type Rule struct {
	Name      string
	Applies   func(s Snapshot) bool
	Delta     int
	// Exclusive marks rules that are skipped when the previous rule fired
	// and the engine runs in exclusive mode.
	Exclusive bool
}

// Engine applies the rule chain and classifies the clamped score.
type Engine struct {
	rules        []Rule
	longWindow   int
	coarseLabels bool
	exclusive    bool
}

// NewEngine builds the canonical three-rule chain from the analysis
// configuration.
func NewEngine(cfg config.AnalysisConfig) *Engine {
	surge := cfg.SurgeRatio

	rules := []Rule{
		{
			// Strong uptrend posture: both averages aligned and price on top.
			Name: "trend_up",
			Applies: func(s Snapshot) bool {
				return s.ShortMA != nil && s.LongMA != nil &&
					*s.ShortMA > *s.LongMA && s.Close > *s.ShortMA
			},
			Delta: 25,
		},
		{
			// Breakdown posture. Always exclusive with trend_up, matching the
			// if/elif pair this chain came from.
			Name: "trend_down",
			Applies: func(s Snapshot) bool {
				return s.LongMA != nil && s.Close < *s.LongMA
			},
			Delta:     -25,
			Exclusive: true,
		},
		{
			// Short-term support: price above the short average.
			Name: "support",
			Applies: func(s Snapshot) bool {
				return s.ShortMA != nil && s.Close > *s.ShortMA
			},
			Delta:     10,
			Exclusive: true,
		},
		{
			// Volume surge with a rising close.
			Name: "volume_surge",
			Applies: func(s Snapshot) bool {
				if s.VolumeMA5 == nil || *s.VolumeMA5 <= 0 {
					return false
				}
				if !s.HasPrev || s.Close <= s.PrevClose {
					return false
				}
				return float64(s.Volume) / *s.VolumeMA5 > surge
			},
			Delta: 15,
		},
	}

	return &Engine{
		rules:        rules,
		longWindow:   cfg.LongWindow,
		coarseLabels: cfg.CoarseLabels,
		exclusive:    cfg.ExclusiveRules,
	}
}

// Score reduces the series and indicator set to (score, label). A series
// shorter than the long window short-circuits to the neutral base score and
// the insufficient-data label, bypassing every rule.
func (e *Engine) Score(series models.Series, set *models.IndicatorSet) (int, models.TrendLabel) {
	if len(series) < e.longWindow || set == nil {
		return baseScore, models.TrendInsufficientData
	}

	snap := e.snapshot(series, set)

	score := baseScore
	prevFired := false
	for _, rule := range e.rules {
		// trend_down is always gated on trend_up not firing; the other
		// exclusive marks only take effect in exclusive mode.
		gated := rule.Exclusive && prevFired && (e.exclusive || rule.Name == "trend_down")
		if gated {
			continue
		}
		if rule.Applies(snap) {
			score += rule.Delta
			prevFired = true
		} else if !rule.Exclusive {
			prevFired = false
		}
	}

	score = clamp(score, 0, 100)
	return score, e.Classify(score)
}

// snapshot freezes the inputs the rule chain reads
func (e *Engine) snapshot(series models.Series, set *models.IndicatorSet) Snapshot {
	last := series.Last()
	snap := Snapshot{
		Close:     last.Close,
		Volume:    last.Volume,
		ShortMA:   set.ShortMA,
		LongMA:    set.LongMA,
		VolumeMA5: indicators.VolumeMean(series.Volumes(), 5),
	}
	if len(series) >= 2 {
		snap.PrevClose = series[len(series)-2].Close
		snap.HasPrev = true
	}
	return snap
}

// Classify applies the classification thresholds to a clamped score
func (e *Engine) Classify(score int) models.TrendLabel {
	if e.coarseLabels {
		switch {
		case score >= 70:
			return models.TrendStrongBullish
		case score <= 30:
			return models.TrendBearishCorrection
		default:
			return models.TrendNeutral
		}
	}
	switch {
	case score >= 75:
		return models.TrendStrongBullish
	case score >= 60:
		return models.TrendMildlyBullish
	case score <= 40:
		return models.TrendBearishCorrection
	default:
		return models.TrendNeutral
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
