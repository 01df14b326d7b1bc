package storage

import (
	"fmt"
	"time"
)

// Info: Separate file for gold type registry logic specific to Postgres

// -----------------------------------------------------------------------------

// RegisterGoldTypes upserts the tracked gold types for a company so restarts
// keep serving types that have gone quiet upstream.
func (d *PostgresDB) RegisterGoldTypes(company string, goldTypes []string) error {
	if len(goldTypes) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableName := fmt.Sprintf(`"%s"."gold_types"`, d.Schema)
	query := fmt.Sprintf(`
		INSERT INTO %s (company, gold_type, registered_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (company, gold_type) DO UPDATE SET
			registered_at = EXCLUDED.registered_at
	`, tableName)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, gt := range goldTypes {
		if _, err := stmt.Exec(company, gt, time.Now().UTC()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadGoldTypes() (map[string][]string, error) {
	query := fmt.Sprintf(`
		SELECT company, gold_type FROM "%s"."gold_types" ORDER BY company, gold_type
	`, d.Schema)

	rows, err := d.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load gold types: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]string)
	for rows.Next() {
		var company, goldType string
		if err := rows.Scan(&company, &goldType); err != nil {
			return nil, err
		}
		result[company] = append(result[company], goldType)
	}

	return result, rows.Err()
}
