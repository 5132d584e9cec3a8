package preview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagekit/internal/identity"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/runtimeconfig"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// Store persists previews.
type Store interface {
	Create(ctx context.Context, record *Preview) (*Preview, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Preview, error)
	Update(ctx context.Context, record *Preview) (*Preview, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Preview, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Service generates and serves authoring previews of unsaved page
// configurations. A preview never touches the live config loader; authors
// submit raw documents and get back a stored, scored snapshot.
type Service struct {
	store     Store
	validator *pageconfig.Validator
	cfg       runtimeconfig.PreviewConfig
	now       func() time.Time
	nonce     func() string
	logger    interfaces.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNow overrides the clock, used by tests.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNonce overrides nonce generation, used by tests that need
// deterministic preview ids.
func WithNonce(nonce func() string) ServiceOption {
	return func(s *Service) {
		if nonce != nil {
			s.nonce = nonce
		}
	}
}

// WithLogger overrides the default module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires a preview service over a store and a validator.
func NewService(store Store, validator *pageconfig.Validator, cfg runtimeconfig.PreviewConfig, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
		nonce:     randomNonce,
		logger:    logging.NoOp(),
	}
	if s.cfg.TTL <= 0 {
		s.cfg.TTL = 24 * time.Hour
	}
	if s.cfg.PerformanceThreshold <= 0 {
		s.cfg.PerformanceThreshold = 80
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and scores a raw configuration document and stores the
// preview. Structural validation failure does not error out; it produces a
// preview in error status so the authoring UI can show what broke.
func (s *Service) Create(ctx context.Context, path string, raw map[string]any) (*Preview, error) {
	now := s.now()
	nonce := s.nonce()
	record := &Preview{
		ID:         identity.PreviewUUID(path, nonce),
		ConfigPath: pageconfig.NormalizePath(path),
		Nonce:      nonce,
		Status:     StatusGenerating,
		Config:     raw,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.TTL),
	}

	result := s.validator.Validate(raw)
	if result.Config == nil {
		record.Status = StatusError
		record.Error = validationSummary(result)
		s.logger.Warn("preview.create.invalid", "path", record.ConfigPath, "error", record.Error)
		return s.store.Create(ctx, record)
	}

	report := s.score(result)
	record.Status = StatusReady
	record.Report = &report

	s.logger.Debug("preview.create.ok",
		"path", record.ConfigPath,
		"valid", report.Valid,
		"performance", report.Performance.Score,
	)
	return s.store.Create(ctx, record)
}

// Get retrieves a preview, treating expired records as missing.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Preview, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Expired(s.now()) {
		return nil, &NotFoundError{Key: id.String()}
	}
	return record, nil
}

// Refresh re-validates and re-scores an existing preview in place.
func (s *Service) Refresh(ctx context.Context, id uuid.UUID, raw map[string]any) (*Preview, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Config = raw
	result := s.validator.Validate(raw)
	if result.Config == nil {
		record.Status = StatusError
		record.Error = validationSummary(result)
		record.Report = nil
	} else {
		report := s.score(result)
		record.Status = StatusReady
		record.Error = ""
		record.Report = &report
	}
	return s.store.Update(ctx, record)
}

// Delete removes a preview.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// List returns the unexpired previews.
func (s *Service) List(ctx context.Context) ([]*Preview, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	live := records[:0]
	for _, record := range records {
		if !record.Expired(now) {
			live = append(live, record)
		}
	}
	return live, nil
}

// Cleanup purges expired previews and returns how many were removed.
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Debug("preview.cleanup", "removed", removed)
	}
	return removed, nil
}

func (s *Service) score(result pageconfig.Result) Report {
	performance := scorePerformance(result.Config, s.cfg.HeavyComponents)
	report := Report{
		Performance:   performance,
		Accessibility: scoreAccessibility(result.Config),
		SEO:           scoreSEO(result.Config),
	}
	report.Valid = result.Valid && performance.Score >= s.cfg.PerformanceThreshold
	return report
}

func validationSummary(result pageconfig.Result) string {
	if len(result.Errors) == 0 {
		return "configuration failed validation"
	}
	messages := make([]string, len(result.Errors))
	for i, issue := range result.Errors {
		messages[i] = issue.Message
	}
	return strings.Join(messages, "; ")
}

func randomNonce() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(buf)
}
