package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"protrader/models"
	"protrader/observability"
	"protrader/services"
)

// Fixed fallback strings. The summarizer never raises to the caller; every
// failure mode degrades to one of these.
const (
	NoRecentNewsMessage  = "No recent news."
	AIUnavailableMessage = "AI commentary unavailable."
)

const summarySystemPrompt = `You are the AI assistant of a mobile stock-watching app.
Given recent news headlines about a stock and its technical trend label, produce a
mobile-readable verdict in under 100 words:
1. [One-line conclusion]: (bullish/bearish) + reason.
2. [Suggested stance]: (buy the dip / wait / cut losses).
Be concrete and never give guaranteed-return language.`

// Summarizer turns headlines plus a trend label into short free-text
// guidance via the text-generation service.
type Summarizer struct {
	llm          services.LLMService
	news         services.NewsProvider
	maxHeadlines int
	healthCache  *HealthCache
}

// NewSummarizer creates a Summarizer. llm may be nil when the
// text-generation API is not configured; every call then degrades to the
// fixed fallback message.
func NewSummarizer(llm services.LLMService, news services.NewsProvider, maxHeadlines int) *Summarizer {
	if maxHeadlines <= 0 {
		maxHeadlines = 5
	}
	return &Summarizer{
		llm:          llm,
		news:         news,
		maxHeadlines: maxHeadlines,
		healthCache:  NewHealthCache(DefaultHealthCacheTTL),
	}
}

// Summarize fetches headlines for the symbol and asks the model for
// guidance. Absent headlines yield the fixed no-news message; any remote
// failure yields the fixed unavailable message. Never returns an error.
func (s *Summarizer) Summarize(ctx context.Context, symbol models.Symbol, label models.TrendLabel) string {
	if s.news == nil {
		return NoRecentNewsMessage
	}

	// Skip doomed calls while the provider is known to be down.
	if available, valid := s.healthCache.Get(); valid && !available {
		return NoRecentNewsMessage
	}

	articles, err := s.news.GetNews(ctx, symbol, s.maxHeadlines)
	s.healthCache.Set(err == nil)
	if err != nil {
		observability.WithSymbol(symbol.Ticker).Warn("news fetch failed", "error", err)
		articles = nil
	}
	if len(articles) == 0 {
		return NoRecentNewsMessage
	}

	if s.llm == nil {
		return AIUnavailableMessage
	}

	response, err := s.llm.InvokeWithPrompt(ctx, summarySystemPrompt, s.buildPrompt(symbol, label, articles))
	if err != nil {
		observability.WithSymbol(symbol.Ticker).Warn("summary generation failed", "error", err)
		return AIUnavailableMessage
	}
	if strings.TrimSpace(response) == "" {
		return AIUnavailableMessage
	}

	return strings.TrimSpace(response)
}

// buildPrompt assembles the bounded user prompt from at most maxHeadlines
// headline lines.
func (s *Summarizer) buildPrompt(symbol models.Symbol, label models.TrendLabel, articles []models.NewsArticle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ticker: %s (technical posture: %s)\n\nRecent headlines:\n", symbol.DisplayName(), label)

	count := 0
	for _, a := range articles {
		if count == s.maxHeadlines {
			break
		}
		fmt.Fprintf(&sb, "- %s", a.Title)
		if a.Source != "" {
			fmt.Fprintf(&sb, " (%s)", a.Source)
		}
		if !a.PublishedAt.IsZero() {
			fmt.Fprintf(&sb, " [%s]", a.PublishedAt.Format(time.DateOnly))
		}
		sb.WriteString("\n")
		count++
	}

	sb.WriteString("\nGive your verdict.")
	return sb.String()
}

// invalidateHealthCache clears the cached provider health so the next
// Summarize call hits the provider again.
func (s *Summarizer) invalidateHealthCache() {
	s.healthCache.Invalidate()
}
