// internal/repository/postgres/report_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/restockd/restockd/internal/domain"
	"github.com/restockd/restockd/internal/repository"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

// Save stores a full report as one row; the entry lists are kept as JSON
// since they are read back whole, never queried per SKU.
func (r *ReportRepository) Save(ctx context.Context, report *domain.ReplenishmentReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO replenishment_reports (generated_at, days_back, days_in_future, until_date, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		report.GeneratedAt.UTC(), report.DaysBack, report.DaysInFuture, report.Until.UTC(), payload)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Latest returns the most recently generated report, or nil when none exists.
func (r *ReportRepository) Latest(ctx context.Context) (*domain.ReplenishmentReport, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `
		SELECT payload FROM replenishment_reports
		ORDER BY generated_at DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest report: %w", err)
	}

	var report domain.ReplenishmentReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
