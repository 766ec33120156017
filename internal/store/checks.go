package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/zeta/internal/report"
)

// Check is one stored evaluation.
type Check struct {
	Seq          int64         `json:"seq"`
	Document     string        `json:"document"`
	DocumentName string        `json:"document_name"`
	Report       report.Report `json:"report"`
}

// Record appends r to the history of the document identified by
// documentHash and returns the assigned seq.
//
// Uses ON CONFLICT DO NOTHING for idempotency: a report already recorded
// for the same document keeps its original seq, and recorded is false.
func (s *Store) Record(ctx context.Context, documentHash, documentName string, r *report.Report) (seq int64, recorded bool, err error) {
	reportJSON, err := marshalReport(r)
	if err != nil {
		return 0, false, fmt.Errorf("record check: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("record check: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO checks
		(seq, document, document_name, root, consistent, fingerprint, report)
		VALUES ((SELECT COALESCE(MAX(seq), 0) + 1 FROM checks), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document, fingerprint) DO NOTHING
	`,
		documentHash,
		documentName,
		r.Root,
		r.Consistent,
		r.Fingerprint,
		reportJSON,
	)
	if err != nil {
		return 0, false, fmt.Errorf("record check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("record check: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT seq FROM checks WHERE document = ? AND fingerprint = ?
	`, documentHash, r.Fingerprint).Scan(&seq)
	if err != nil {
		return 0, false, fmt.Errorf("record check: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("record check: %w", err)
	}
	return seq, n > 0, nil
}

// History returns stored checks for root, or for every root when root is
// empty. Results are ordered by seq ASC.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) History(ctx context.Context, root string) ([]Check, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if root == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT seq, document, document_name, report
			FROM checks
			ORDER BY seq ASC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT seq, document, document_name, report
			FROM checks
			WHERE root = ?
			ORDER BY seq ASC
		`, root)
	}
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	checks := []Check{}
	for rows.Next() {
		var (
			c          Check
			reportJSON string
		)
		if err := rows.Scan(&c.Seq, &c.Document, &c.DocumentName, &reportJSON); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		if c.Report, err = unmarshalReport(reportJSON); err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}

	return checks, nil
}

// Latest returns the most recent check for root, or sql.ErrNoRows.
func (s *Store) Latest(ctx context.Context, root string) (Check, error) {
	var (
		c          Check
		reportJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, document, document_name, report
		FROM checks
		WHERE root = ?
		ORDER BY seq DESC
		LIMIT 1
	`, root).Scan(&c.Seq, &c.Document, &c.DocumentName, &reportJSON)
	if err != nil {
		return Check{}, fmt.Errorf("latest check %q: %w", root, err)
	}
	if c.Report, err = unmarshalReport(reportJSON); err != nil {
		return Check{}, err
	}
	return c, nil
}
