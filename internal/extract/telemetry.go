// Package extract turns raw platform API payloads into the domain types
// of the svcmap pipeline. Telemetry extraction is best-effort per signal:
// a malformed or missing payload contributes nothing rather than failing
// the aggregate. Catalog extraction in enrichment mode is strict.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opsatlas/svcmap/pkg/errors"
	"github.com/opsatlas/svcmap/pkg/services"
)

// serviceTagPrefix marks the tags whose suffix names a service.
const serviceTagPrefix = "service:"

// metricsPayload is the legacy query-metrics response shape.
type metricsPayload struct {
	Series []metricSeries `json:"series"`
}

type metricSeries struct {
	Metric string   `json:"metric"`
	TagSet []string `json:"tag_set"`
}

// apmService is one entry of the flat trace-service listing.
type apmService struct {
	Name string `json:"name"`
}

// logsPayload is the log-events response shape.
type logsPayload struct {
	Data []logEvent `json:"data"`
}

type logEvent struct {
	Attributes logAttributes `json:"attributes"`
}

type logAttributes struct {
	Tags []string `json:"tags"`
}

// MetricServices extracts service-name candidates from a metrics payload.
// A series contributes only when its metric expression mentions a service
// tag; the candidates come from the series tag set.
func MetricServices(payload []byte) ([]string, error) {
	var parsed metricsPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.WrapParse("json", "metrics response", err)
	}

	var candidates []string
	for _, series := range parsed.Series {
		if !strings.Contains(series.Metric, serviceTagPrefix) {
			continue
		}
		for _, tag := range series.TagSet {
			if suffix, ok := strings.CutPrefix(tag, serviceTagPrefix); ok {
				candidates = append(candidates, suffix)
			}
		}
	}
	return candidates, nil
}

// TraceServices extracts service-name candidates from the flat APM
// service listing. Entries without a name are skipped.
func TraceServices(payload []byte) ([]string, error) {
	var parsed []apmService
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.WrapParse("json", "apm services response", err)
	}

	var candidates []string
	for _, svc := range parsed {
		if svc.Name != "" {
			candidates = append(candidates, svc.Name)
		}
	}
	return candidates, nil
}

// LogServices extracts service-name candidates from log event tags.
func LogServices(payload []byte) ([]string, error) {
	var parsed logsPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.WrapParse("json", "logs response", err)
	}

	var candidates []string
	for _, event := range parsed.Data {
		for _, tag := range event.Attributes.Tags {
			if suffix, ok := strings.CutPrefix(tag, serviceTagPrefix); ok {
				candidates = append(candidates, suffix)
			}
		}
	}
	return candidates, nil
}

// TelemetryServices merges the three telemetry signals into one service
// set. Each signal is independent: a payload that is nil or unparseable
// is logged and contributes zero candidates.
func TelemetryServices(log *zerolog.Logger, metrics, traces, logs []byte) services.Set {
	var candidates []string

	signals := []struct {
		name    string
		payload []byte
		extract func([]byte) ([]string, error)
	}{
		{"metrics", metrics, MetricServices},
		{"traces", traces, TraceServices},
		{"logs", logs, LogServices},
	}

	for _, signal := range signals {
		if signal.payload == nil {
			log.Info().Str("signal", signal.name).Msg("No payload for signal, skipping")
			continue
		}
		found, err := signal.extract(signal.payload)
		if err != nil {
			log.Warn().Err(err).Str("signal", signal.name).Msg("Signal payload unusable, contributing no services")
			continue
		}
		log.Debug().Str("signal", signal.name).Int("candidates", len(found)).Msg("Extracted signal candidates")
		candidates = append(candidates, found...)
	}

	return services.NewSet(candidates)
}
