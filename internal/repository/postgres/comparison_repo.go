package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

const comparisonColumns = `id, po_document_id, invoice_document_id, input_hash, key_strategy,
	quantity_tolerance, price_tolerance, total_items_compared, matching_items, discrepant_items,
	grand_total_difference, highest_severity, result, alerts, archive_prefix, created_by, created_at`

type comparisonRepo struct {
	db *sqlx.DB
}

// NewComparisonRepo creates a new PostgreSQL-backed ComparisonRepository.
func NewComparisonRepo(db *sqlx.DB) port.ComparisonRepository {
	return &comparisonRepo{db: db}
}

func (r *comparisonRepo) Create(ctx context.Context, run *domain.ComparisonRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := run.EncodePayload(); err != nil {
		return fmt.Errorf("comparisonRepo.Create: %w", err)
	}

	query := `INSERT INTO comparison_runs (` + comparisonColumns + `)
		VALUES (:id, :po_document_id, :invoice_document_id, :input_hash, :key_strategy,
			:quantity_tolerance, :price_tolerance, :total_items_compared, :matching_items, :discrepant_items,
			:grand_total_difference, :highest_severity, :result, :alerts, :archive_prefix, :created_by, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("comparisonRepo.Create: %w", err)
	}
	return nil
}

func (r *comparisonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComparisonRun, error) {
	var run domain.ComparisonRun
	err := r.db.GetContext(ctx, &run,
		"SELECT "+comparisonColumns+" FROM comparison_runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrComparisonNotFound
		}
		return nil, fmt.Errorf("comparisonRepo.GetByID: %w", err)
	}
	if err := run.DecodePayload(); err != nil {
		return nil, fmt.Errorf("comparisonRepo.GetByID: %w", err)
	}
	return &run, nil
}

// List returns summaries without the stored result payload.
func (r *comparisonRepo) List(ctx context.Context, filter port.ComparisonListFilter) ([]domain.ComparisonRun, int, error) {
	where, args := buildWhereClause(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM comparison_runs "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("comparisonRepo.List count: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, po_document_id, invoice_document_id, input_hash, key_strategy,
		quantity_tolerance, price_tolerance, total_items_compared, matching_items, discrepant_items,
		grand_total_difference, highest_severity, alerts, archive_prefix, created_by, created_at
		FROM comparison_runs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)

	var runs []domain.ComparisonRun
	if err := r.db.SelectContext(ctx, &runs, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("comparisonRepo.List: %w", err)
	}
	for i := range runs {
		if err := runs[i].DecodePayload(); err != nil {
			return nil, 0, fmt.Errorf("comparisonRepo.List: %w", err)
		}
	}
	return runs, total, nil
}

func (r *comparisonRepo) UpdateArchivePrefix(ctx context.Context, id uuid.UUID, prefix string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE comparison_runs SET archive_prefix = $1 WHERE id = $2", prefix, id)
	if err != nil {
		return fmt.Errorf("comparisonRepo.UpdateArchivePrefix: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrComparisonNotFound
	}
	return nil
}

func (r *comparisonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comparison_runs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("comparisonRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrComparisonNotFound
	}
	return nil
}

func (r *comparisonRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// buildWhereClause constructs the WHERE clause for comparison listings. It
// returns an empty clause when no filter is set.
func buildWhereClause(filter port.ComparisonListFilter) (clause string, args []interface{}) {
	var conds []string
	argN := 1

	if filter.PODocumentID != "" {
		conds = append(conds, fmt.Sprintf("po_document_id = $%d", argN))
		args = append(args, filter.PODocumentID)
		argN++
	}
	if filter.MinSeverity != "" && filter.MinSeverity.Rank() > 0 {
		var placeholders []string
		for _, s := range severitiesAtLeast(filter.MinSeverity) {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(s))
			argN++
		}
		conds = append(conds, "highest_severity IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func severitiesAtLeast(min domain.Severity) []domain.Severity {
	var out []domain.Severity
	for _, s := range []domain.Severity{domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical} {
		if s.Rank() >= min.Rank() {
			out = append(out, s)
		}
	}
	return out
}
