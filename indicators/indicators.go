// Package indicators derives moving averages, a volume-concentration
// profile, and a bias ratio from a fetched series. Every arithmetic fault
// degrades the specific indicator to absent; nothing here panics and
// nothing substitutes zero for an undefined value.
package indicators

import (
	"errors"

	"protrader/config"
	"protrader/models"
)

// ErrInsufficientHistory is returned when a series is too short for the
// long moving-average window. Callers must treat this as "render with
// neutral defaults", not as a hard error.
var ErrInsufficientHistory = errors.New("insufficient price history")

// Engine computes an IndicatorSet from a Series using configured windows.
type Engine struct {
	shortWindow   int
	longWindow    int
	profileWindow int
	profileBins   int
}

// NewEngine creates an indicator engine from the analysis configuration
func NewEngine(cfg config.AnalysisConfig) *Engine {
	return &Engine{
		shortWindow:   cfg.ShortWindow,
		longWindow:    cfg.LongWindow,
		profileWindow: cfg.ProfileWindow,
		profileBins:   cfg.ProfileBins,
	}
}

// Compute derives the indicator set for a series. Returns
// ErrInsufficientHistory when the series is shorter than the long window.
// The volume profile may still be nil on a successful return when its
// sub-window has fewer than two points.
func (e *Engine) Compute(series models.Series) (*models.IndicatorSet, error) {
	if len(series) < e.longWindow {
		return nil, ErrInsufficientHistory
	}

	closes := series.Closes()
	set := &models.IndicatorSet{
		ShortMA: LatestMean(closes, e.shortWindow),
		LongMA:  LatestMean(closes, e.longWindow),
		Profile: VolumeProfile(series.Tail(e.profileWindow), e.profileBins),
	}
	set.Bias = BiasRatio(closes[len(closes)-1], set.ShortMA)

	return set, nil
}

// LatestMean returns the trailing simple mean over the last window values,
// or nil when the window has not filled. Positions before the window fills
// are undefined and deliberately unrepresented.
func LatestMean(values []float64, window int) *float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	mean := sum / float64(window)
	return &mean
}

// RollingMean returns the rolling simple mean of values over the window.
// The first window-1 positions are nil.
func RollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			mean := sum / float64(window)
			out[i] = &mean
		}
	}
	return out
}

// BiasRatio returns the percentage deviation of the latest close from the
// short moving average, or nil when the average is absent or zero.
func BiasRatio(latestClose float64, shortMA *float64) *float64 {
	if shortMA == nil || *shortMA == 0 {
		return nil
	}
	bias := (latestClose - *shortMA) / *shortMA * 100
	return &bias
}

// VolumeProfile partitions the sub-window's close-price range into bins
// equal-width buckets and sums volume per bucket. Returns nil when the
// sub-window has fewer than two points; absence is a distinct state from
// a computed-but-empty profile. A degenerate price range (all closes equal)
// collapses to a single bin holding all volume.
func VolumeProfile(subWindow models.Series, bins int) []models.VolumeBin {
	if len(subWindow) < 2 || bins <= 0 {
		return nil
	}

	low, high := subWindow[0].Close, subWindow[0].Close
	for _, b := range subWindow[1:] {
		if b.Close < low {
			low = b.Close
		}
		if b.Close > high {
			high = b.Close
		}
	}

	if high == low {
		var total int64
		for _, b := range subWindow {
			total += b.Volume
		}
		return []models.VolumeBin{{Low: low, High: high, Volume: total}}
	}

	width := (high - low) / float64(bins)
	profile := make([]models.VolumeBin, bins)
	for i := range profile {
		profile[i].Low = low + float64(i)*width
		profile[i].High = profile[i].Low + width
	}
	profile[bins-1].High = high

	for _, b := range subWindow {
		idx := int((b.Close - low) / width)
		if idx >= bins {
			idx = bins - 1 // the max close lands in the top bin
		}
		profile[idx].Volume += b.Volume
	}

	return profile
}

// VolumeMean returns the trailing simple mean over the last window volumes,
// or nil when the window has not filled.
func VolumeMean(volumes []int64, window int) *float64 {
	if window <= 0 || len(volumes) < window {
		return nil
	}
	var sum int64
	for _, v := range volumes[len(volumes)-window:] {
		sum += v
	}
	mean := float64(sum) / float64(window)
	return &mean
}
