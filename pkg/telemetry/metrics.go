package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FeedMetrics holds the instruments recorded by the feed ranker.
type FeedMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	excluded metric.Int64Counter
}

// NewFeedMetrics builds the feed instruments on the global meter provider.
// Instrument creation errors fall back to no-op instruments.
func NewFeedMetrics() *FeedMetrics {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("feed_rank_duration_seconds",
		metric.WithDescription("Time spent ranking one feed page"),
		metric.WithUnit("s"))
	if err != nil {
		duration = nil
	}
	requests, err := meter.Int64Counter("feed_rank_requests_total",
		metric.WithDescription("Feed rank requests"))
	if err != nil {
		requests = nil
	}
	excluded, err := meter.Int64Counter("feed_candidates_excluded_total",
		metric.WithDescription("Candidates dropped because a lookup failed or the author is gone"))
	if err != nil {
		excluded = nil
	}

	return &FeedMetrics{duration: duration, requests: requests, excluded: excluded}
}

// ObserveRank records one completed rank computation.
func (m *FeedMetrics) ObserveRank(ctx context.Context, took time.Duration, page int, excluded int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("page_one", page == 1))
	if m.duration != nil {
		m.duration.Record(ctx, took.Seconds(), attrs)
	}
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.excluded != nil && excluded > 0 {
		m.excluded.Add(ctx, int64(excluded))
	}
}
