package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

const (
	// ExportSequenceBase is handed out the very first time the counter is
	// read. Numbers below it are reserved for the legacy desktop clients.
	ExportSequenceBase = 900000

	exportSequenceName = "PREVENDA"
)

// NextExportSequenceInTx reads the next pre-sale file number, advances the
// persisted counter and derives the output filename. The caller owns the
// transaction, so a failed export that rolls back never burns a number.
func NextExportSequenceInTx(tx *sqlx.Tx) (int, string, error) {
	var next int
	err := tx.Get(&next, "SELECT next_no FROM export_sequences WHERE name = ?", exportSequenceName)
	if err == sql.ErrNoRows {
		next = ExportSequenceBase
		if _, err := tx.Exec(`INSERT INTO export_sequences (name, next_no) VALUES (?, ?)`, exportSequenceName, next); err != nil {
			return 0, "", fmt.Errorf("failed to seed sequence '%s': %w", exportSequenceName, err)
		}
	} else if err != nil {
		return 0, "", fmt.Errorf("failed to get sequence '%s': %w", exportSequenceName, err)
	}

	if _, err := tx.Exec(`UPDATE export_sequences SET next_no = ? WHERE name = ?`, next+1, exportSequenceName); err != nil {
		return 0, "", fmt.Errorf("failed to update sequence '%s': %w", exportSequenceName, err)
	}

	filename := fmt.Sprintf("C%06d.DBF", next)
	log.Printf("INFO: [Sequence] Allocated pre-sale number %d (%s)", next, filename)

	return next, filename, nil
}

// ExportSequence is the sqlite-backed allocator handed to the export
// driver.
type ExportSequence struct {
	Conn *sqlx.DB
}

// Next allocates and commits one sequence number.
func (s *ExportSequence) Next() (int, string, error) {
	tx, err := s.Conn.Beginx()
	if err != nil {
		return 0, "", fmt.Errorf("failed to begin sequence transaction: %w", err)
	}
	defer tx.Rollback()

	number, filename, err := NextExportSequenceInTx(tx)
	if err != nil {
		return 0, "", err
	}
	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("failed to commit sequence '%s': %w", exportSequenceName, err)
	}
	return number, filename, nil
}
