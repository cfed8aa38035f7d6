package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/dockwatch/internal/db"
	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/models"
)

// CaseFileRepository archives finished investigation reports. Only the report
// itself is stored; the evidence that produced it stays in memory and is gone
// once the session resets.
type CaseFileRepository struct {
	dbs    *db.Database
	logger *slog.Logger
}

func NewCaseFileRepository(dbs *db.Database, logger *slog.Logger) *CaseFileRepository {
	return &CaseFileRepository{
		dbs:    dbs,
		logger: logger.With("source", "CaseFileRepository"),
	}
}

// CaseFileSummary is one row of the case history listing.
type CaseFileSummary struct {
	ID                int64  `db:"id"`
	InvestigationID   string `db:"investigation_id"`
	Summary           string `db:"summary"`
	ShrinkageEstimate string `db:"shrinkage_estimate"`
	CreatedAt         string `db:"created_at"`
}

// Store archives the report with the current timestamp.
func (r *CaseFileRepository) Store(ctx context.Context, report *models.InvestigationReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	stmt := `INSERT INTO case_files (investigation_id, summary, shrinkage_estimate, report_json, created_at)
VALUES (:investigation_id, :summary, :shrinkage_estimate, :report_json, :created_at)`
	args := map[string]any{
		"investigation_id":   report.InvestigationID,
		"summary":            report.Summary,
		"shrinkage_estimate": report.ShrinkageEstimate,
		"report_json":        string(reportJSON),
		"created_at":         time.Now().UTC().Format(time.RFC3339),
	}
	if _, err = r.dbs.ReadWrite.NamedExecContext(ctx, stmt, args); err != nil {
		return errors.Wrap(err, "insert case file")
	}
	return nil
}

// List returns the newest case files first, up to limit rows.
func (r *CaseFileRepository) List(ctx context.Context, limit int) ([]CaseFileSummary, error) {
	stmt := `SELECT id, investigation_id, summary, shrinkage_estimate, created_at
FROM case_files
ORDER BY created_at DESC, id DESC
LIMIT ?`
	summaries := []CaseFileSummary{}
	if err := r.dbs.ReadOnly.SelectContext(ctx, &summaries, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select case files")
	}
	return summaries, nil
}

// Get loads the full archived report.
func (r *CaseFileRepository) Get(ctx context.Context, id int64) (*models.InvestigationReport, error) {
	var reportJSON string
	stmt := `SELECT report_json FROM case_files WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &reportJSON, stmt, id); err != nil {
		return nil, errors.Wrap(err, "read case file")
	}
	var report models.InvestigationReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, errors.Wrap(err, "unmarshal report")
	}
	return &report, nil
}
