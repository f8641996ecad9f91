package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"donorapi/internal/ingest"
	"donorapi/internal/logging"
	"donorapi/internal/metrics"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidCallDetail = errors.New("invalid call detail")
)

var tracer = otel.Tracer("donorapi/internal/service")

// defaultIngestTimeout bounds one distribution run when no timeout is configured.
const defaultIngestTimeout = 60 * time.Second

// Option configures a DistributionService.
type Option func(*distributionService)

// WithAliases replaces the header alias table.
func WithAliases(a ingest.AliasTable) Option {
	return func(s *distributionService) { s.aliases = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *distributionService) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.IngestMetrics) Option {
	return func(s *distributionService) { s.metrics = m }
}

// WithClock sets the source of distribution and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *distributionService) { s.now = now }
}

// WithShuffler fixes the random source of the random policy. The shuffler must be safe for the
// service's concurrency; by default every run draws a freshly seeded generator.
func WithShuffler(sh ingest.Shuffler) Option {
	return func(s *distributionService) { s.rng = sh }
}

// WithTimeout bounds a whole ingestion run. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *distributionService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithIDGenerator sets the generator of record, ledger and manifest IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *distributionService) { s.newID = gen }
}

func defaultService() *distributionService {
	return &distributionService{
		aliases: ingest.DefaultAliases(),
		log:     logging.Discard(),
		now:     time.Now,
		timeout: defaultIngestTimeout,
		newID:   uuid.NewString,
	}
}
