package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Business metric types accepted by RecordBusinessMetric.
const (
	MetricResumeParsed = "resume_parsed"
	MetricSkillGap     = "skill_gap"
	MetricGrowthPath   = "growth_path"
	MetricReport       = "report_generated"
	MetricEmail        = "email_sent"
	MetricRateLimitHit = "rate_limit_hit"
)

// Metrics holds all custom metrics for ResumeTwin
type Metrics struct {
	// Business metrics
	ResumesParsed      metric.Int64Counter
	ATSScores          metric.Int64Histogram
	CareerTwinMatches  metric.Int64Histogram
	SkillGapRequests   metric.Int64Counter
	GrowthPathRequests metric.Int64Counter
	ReportsGenerated   metric.Int64Counter
	EmailsSent         metric.Int64Counter
	DocumentSize       metric.Int64Histogram

	// Certificate metrics
	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

type instrument struct {
	name, description, unit string
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	counters := []struct {
		def    instrument
		target *metric.Int64Counter
	}{
		{instrument{"resumetwin_resumes_parsed_total", "Total number of resumes parsed", ""}, &m.ResumesParsed},
		{instrument{"resumetwin_skill_gap_requests_total", "Total number of skill gap analyses", ""}, &m.SkillGapRequests},
		{instrument{"resumetwin_growth_path_requests_total", "Total number of growth path lookups", ""}, &m.GrowthPathRequests},
		{instrument{"resumetwin_reports_generated_total", "Total number of ATS reports rendered", ""}, &m.ReportsGenerated},
		{instrument{"resumetwin_emails_sent_total", "Total number of report emails attempted", ""}, &m.EmailsSent},
		{instrument{"resumetwin_cert_reloads_total", "Total number of certificate reloads", ""}, &m.CertReloadCount},
		{instrument{"resumetwin_rate_limit_hits_total", "Total number of rate limit hits", ""}, &m.RateLimitHits},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.def.name, metric.WithDescription(c.def.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.def.name, err)
		}
		*c.target = counter
	}

	histograms := []struct {
		def    instrument
		target *metric.Int64Histogram
	}{
		{instrument{"resumetwin_ats_score", "Distribution of ATS scores", "{score}"}, &m.ATSScores},
		{instrument{"resumetwin_career_twin_matches", "Career twins returned per resume", "{twin}"}, &m.CareerTwinMatches},
		{instrument{"resumetwin_document_size_bytes", "Size of uploaded resume documents", "By"}, &m.DocumentSize},
	}
	for _, h := range histograms {
		histogram, err := meter.Int64Histogram(h.def.name,
			metric.WithDescription(h.def.description),
			metric.WithUnit(h.def.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", h.def.name, err)
		}
		*h.target = histogram
	}

	var err error
	// populated by the certificate reloader
	m.CertExpiryTime, err = meter.Float64Gauge(
		"resumetwin_cert_expiry_seconds",
		metric.WithDescription("Seconds until certificate expiry"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate expiry time metric: %w", err)
	}

	return m, nil
}

// RecordBusinessMetric records business-specific metrics
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if metricType == MetricRateLimitHit {
		m.recordRateLimitHit(ctx, om, attributes)
		return
	}
	if !om.businessMetricsEnabled() {
		return
	}

	attrs := attributes
	if om.trackSuccessRates() {
		attrs = append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)
	}

	var counter metric.Int64Counter
	switch metricType {
	case MetricResumeParsed:
		counter = m.ResumesParsed
	case MetricSkillGap:
		counter = m.SkillGapRequests
	case MetricGrowthPath:
		counter = m.GrowthPathRequests
	case MetricReport:
		counter = m.ReportsGenerated
	case MetricEmail:
		counter = m.EmailsSent
	}
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordAnalysis records the score and twin count of one analysed resume.
func (m *Metrics) RecordAnalysis(ctx context.Context, score, twins int, om *ObservabilityManager) {
	if !om.businessMetricsEnabled() {
		return
	}
	if m.ATSScores != nil {
		m.ATSScores.Record(ctx, int64(score))
	}
	if m.CareerTwinMatches != nil {
		m.CareerTwinMatches.Record(ctx, int64(twins))
	}
}

// RecordDocumentSize records the size of an uploaded document by format.
func (m *Metrics) RecordDocumentSize(ctx context.Context, format string, size int, om *ObservabilityManager) {
	if !om.businessMetricsEnabled() || (om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.TrackContentSizes) {
		return
	}
	if m.DocumentSize != nil {
		m.DocumentSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String("format", format)))
	}
}

// RecordCertReload counts a certificate reload and updates the expiry gauge.
func (m *Metrics) RecordCertReload(ctx context.Context, success bool, secondsToExpiry float64, om *ObservabilityManager) {
	if m.CertReloadCount != nil {
		m.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
	if !success || m.CertExpiryTime == nil {
		return
	}
	if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.Infrastructure.TrackCertExpiry {
		return
	}
	m.CertExpiryTime.Record(ctx, secondsToExpiry)
}

func (m *Metrics) recordRateLimitHit(ctx context.Context, om *ObservabilityManager, attrs []attribute.KeyValue) {
	// rate limiting is an infrastructure metric
	if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
		return
	}
	if m.RateLimitHits != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func (om *ObservabilityManager) businessMetricsEnabled() bool {
	return om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled
}

func (om *ObservabilityManager) trackSuccessRates() bool {
	return om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.BusinessMetrics.TrackSuccessRates
}
