package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docrecon/internal/domain"
	"docrecon/internal/metrics"
	"docrecon/internal/port"
	"docrecon/internal/reconcile"
	"docrecon/internal/report"
)

// CompareInput is one purchase order / invoice pair to reconcile. Unset
// tolerance fields and an empty KeyStrategy fall back to the service defaults.
type CompareInput struct {
	PurchaseOrder domain.ExtractedDocument
	Invoice       domain.ExtractedDocument
	Tolerances    *reconcile.ToleranceOverrides
	KeyStrategy   string
	CreatedBy     string
}

// ComparisonSettings are the service-wide defaults and side-effect switches.
type ComparisonSettings struct {
	Tolerances       reconcile.Tolerances
	KeyStrategy      reconcile.KeyStrategy
	BatchConcurrency int
	MaxBatchSize     int
	ArchiveEnabled   bool
	ArchivePrefix    string
	PresignExpiry    time.Duration
	AlertRecipients  []string
}

// ComparisonDeps are the collaborators of the comparison service. Cache,
// Storage, Email and Metrics are optional.
type ComparisonDeps struct {
	Repo    port.ComparisonRepository
	Cache   port.ComparisonCache
	Storage port.ObjectStorage
	Email   port.EmailSender
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// ComparisonService defines the reconciliation contract.
type ComparisonService interface {
	Compare(ctx context.Context, input CompareInput) (*domain.ComparisonRun, error)
	CompareBatch(ctx context.Context, inputs []CompareInput) ([]*domain.ComparisonRun, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ComparisonRun, error)
	List(ctx context.Context, filter port.ComparisonListFilter) ([]domain.ComparisonRun, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RenderReport(ctx context.Context, id uuid.UUID, format report.Format, w io.Writer) (*domain.ComparisonRun, error)
	ArchiveURL(ctx context.Context, id uuid.UUID, format report.Format) (string, error)
}

type comparisonService struct {
	deps     ComparisonDeps
	settings ComparisonSettings
	logger   *zap.Logger
}

// NewComparisonService creates a new ComparisonService implementation.
func NewComparisonService(deps ComparisonDeps, settings ComparisonSettings) (ComparisonService, error) {
	if deps.Repo == nil {
		return nil, errors.New("comparison service: repository is required")
	}
	if err := settings.Tolerances.Validate(); err != nil {
		return nil, fmt.Errorf("comparison service: %w", err)
	}
	strategy, err := reconcile.ParseKeyStrategy(string(settings.KeyStrategy))
	if err != nil {
		return nil, fmt.Errorf("comparison service: %w", err)
	}
	settings.KeyStrategy = strategy
	if settings.BatchConcurrency < 1 {
		settings.BatchConcurrency = 1
	}
	if settings.PresignExpiry <= 0 {
		settings.PresignExpiry = time.Hour
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &comparisonService{deps: deps, settings: settings, logger: logger.Named("comparison")}, nil
}

func (s *comparisonService) Compare(ctx context.Context, input CompareInput) (*domain.ComparisonRun, error) {
	tol := input.Tolerances.Apply(s.settings.Tolerances)
	strategy := s.settings.KeyStrategy
	if input.KeyStrategy != "" {
		strategy = reconcile.KeyStrategy(input.KeyStrategy)
	}

	comparator, err := reconcile.NewComparator(reconcile.Options{Tolerances: tol, KeyStrategy: strategy, Logger: s.logger})
	if err != nil {
		return nil, err
	}

	hash, err := InputHash(input.PurchaseOrder, input.Invoice, comparator.Tolerances(), comparator.KeyStrategy())
	if err != nil {
		return nil, fmt.Errorf("comparisonService.Compare: %w", err)
	}

	if cached := s.cachedRun(ctx, hash); cached != nil {
		return cached, nil
	}

	start := time.Now()
	comparison := comparator.Compare(input.PurchaseOrder, input.Invoice)
	alerts := reconcile.SynthesizeAlerts(comparison)
	s.deps.Metrics.ObserveComparison(&comparison, alerts, time.Since(start))

	run := domain.NewComparisonRun(comparison, alerts, hash, tol.QuantityPct, tol.PricePct, input.CreatedBy)
	if err := s.deps.Repo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("comparisonService.Compare: %w", err)
	}

	s.logger.Info("comparison completed",
		zap.String("run_id", run.ID.String()),
		zap.String("po", run.PODocumentID),
		zap.String("invoice", run.InvoiceDocumentID),
		zap.Int("items", run.TotalItemsCompared),
		zap.Int("discrepant", run.DiscrepantItems),
		zap.String("highest_severity", string(run.HighestSeverity)),
		zap.Int("alerts", len(alerts)),
	)

	s.archive(ctx, run)
	s.notify(ctx, run)
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, hash, run); err != nil {
			s.deps.Metrics.SideEffectFailed("cache")
			s.logger.Warn("caching comparison failed", zap.String("run_id", run.ID.String()), zap.Error(err))
		}
	}
	return run, nil
}

// CompareBatch reconciles every pair with bounded concurrency. The first
// failure cancels the remaining pairs.
func (s *comparisonService) CompareBatch(ctx context.Context, inputs []CompareInput) ([]*domain.ComparisonRun, error) {
	if s.settings.MaxBatchSize > 0 && len(inputs) > s.settings.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", domain.ErrBatchTooLarge, len(inputs), s.settings.MaxBatchSize)
	}

	runs := make([]*domain.ComparisonRun, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.BatchConcurrency)
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run, err := s.Compare(gctx, inputs[i])
			if err != nil {
				return fmt.Errorf("pair %d: %w", i, err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *comparisonService) Get(ctx context.Context, id uuid.UUID) (*domain.ComparisonRun, error) {
	return s.deps.Repo.GetByID(ctx, id)
}

func (s *comparisonService) List(ctx context.Context, filter port.ComparisonListFilter) ([]domain.ComparisonRun, int, error) {
	return s.deps.Repo.List(ctx, filter)
}

func (s *comparisonService) Delete(ctx context.Context, id uuid.UUID) error {
	run, err := s.deps.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Delete(ctx, run.InputHash); err != nil {
			s.logger.Warn("evicting cached comparison failed", zap.String("run_id", id.String()), zap.Error(err))
		}
	}
	if s.deps.Storage != nil && run.ArchivePrefix != "" {
		for _, f := range report.Formats {
			key := path.Join(run.ArchivePrefix, f.DefaultName())
			if err := s.deps.Storage.Delete(ctx, key); err != nil {
				s.logger.Warn("deleting archived report failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *comparisonService) RenderReport(ctx context.Context, id uuid.UUID, format report.Format, w io.Writer) (*domain.ComparisonRun, error) {
	run, err := s.deps.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := report.InputFromRun(run)
	if err != nil {
		return nil, fmt.Errorf("comparisonService.RenderReport: %w", err)
	}
	if err := report.Render(w, format, in); err != nil {
		return nil, fmt.Errorf("comparisonService.RenderReport: %w", err)
	}
	return run, nil
}

func (s *comparisonService) ArchiveURL(ctx context.Context, id uuid.UUID, format report.Format) (string, error) {
	if s.deps.Storage == nil {
		return "", domain.ErrStorageDisabled
	}
	run, err := s.deps.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if run.ArchivePrefix == "" {
		return "", domain.ErrNotFound
	}
	return s.deps.Storage.GetPresignedURL(ctx, path.Join(run.ArchivePrefix, format.DefaultName()), s.settings.PresignExpiry)
}

func (s *comparisonService) cachedRun(ctx context.Context, hash string) *domain.ComparisonRun {
	if s.deps.Cache == nil {
		return nil
	}
	run, err := s.deps.Cache.Get(ctx, hash)
	if err != nil {
		s.deps.Metrics.SideEffectFailed("cache")
		s.logger.Warn("reading comparison cache failed", zap.String("input_hash", hash), zap.Error(err))
		return nil
	}
	s.deps.Metrics.CacheLookup(run != nil)
	if run != nil {
		s.logger.Debug("comparison served from cache", zap.String("run_id", run.ID.String()))
	}
	return run
}

// archive uploads every report format under one prefix. Failures leave the
// run without an archive prefix.
func (s *comparisonService) archive(ctx context.Context, run *domain.ComparisonRun) {
	if !s.settings.ArchiveEnabled || s.deps.Storage == nil {
		return
	}
	in, err := report.InputFromRun(run)
	if err != nil {
		s.archiveFailed(run, fmt.Errorf("building report input: %w", err))
		return
	}

	prefix := path.Join(s.settings.ArchivePrefix, run.CreatedAt.Format("2006/01/02"), run.ID.String())
	for _, f := range report.Formats {
		var buf bytes.Buffer
		if err := report.Render(&buf, f, in); err != nil {
			s.archiveFailed(run, fmt.Errorf("rendering %s: %w", f, err))
			return
		}
		_, err := s.deps.Storage.Upload(ctx, port.UploadInput{
			Key:         path.Join(prefix, f.DefaultName()),
			Body:        &buf,
			ContentType: f.ContentType(),
		})
		if err != nil {
			s.archiveFailed(run, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err))
			return
		}
	}

	if err := s.deps.Repo.UpdateArchivePrefix(ctx, run.ID, prefix); err != nil {
		s.archiveFailed(run, err)
		return
	}
	run.ArchivePrefix = prefix
}

func (s *comparisonService) archiveFailed(run *domain.ComparisonRun, err error) {
	s.deps.Metrics.SideEffectFailed("archive")
	s.logger.Error("archiving comparison reports failed", zap.String("run_id", run.ID.String()), zap.Error(err))
}

func (s *comparisonService) notify(ctx context.Context, run *domain.ComparisonRun) {
	if s.deps.Email == nil || len(s.settings.AlertRecipients) == 0 || len(run.CriticalAlerts()) == 0 {
		return
	}
	if err := s.deps.Email.SendComparisonAlerts(ctx, s.settings.AlertRecipients, run); err != nil {
		s.deps.Metrics.SideEffectFailed("notify")
		s.logger.Error("sending comparison alerts failed", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// InputHash fingerprints a comparison request: both documents plus the
// options that change the result.
func InputHash(po, inv domain.ExtractedDocument, tol reconcile.Tolerances, strategy reconcile.KeyStrategy) (string, error) {
	payload, err := json.Marshal(struct {
		PO          domain.ExtractedDocument `json:"po"`
		Invoice     domain.ExtractedDocument `json:"invoice"`
		Tolerances  reconcile.Tolerances     `json:"tolerances"`
		KeyStrategy reconcile.KeyStrategy    `json:"key_strategy"`
	}{po, inv, tol, strategy})
	if err != nil {
		return "", fmt.Errorf("hashing comparison input: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
