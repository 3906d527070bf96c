package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PostgresStore keeps every collection in a single JSONB table partitioned by
// collection name.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Collection(name, _ string) Collection {
	return &postgresCollection{db: s.db, name: name}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

type postgresCollection struct {
	db   *sql.DB
	name string
}

func (c *postgresCollection) Insert(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)`
	_, err = c.db.ExecContext(ctx, query, c.name, id, string(body))

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

func (c *postgresCollection) FindOne(ctx context.Context, id string, out any) error {
	query := `SELECT body FROM documents WHERE collection = $1 AND id = $2`

	var body []byte
	err := c.db.QueryRowContext(ctx, query, c.name, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *postgresCollection) FindAll(ctx context.Context, out any) error {
	query := `SELECT body FROM documents WHERE collection = $1 ORDER BY created_at`
	rows, err := c.db.QueryContext(ctx, query, c.name)
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return err
		}
		docs = append(docs, body)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return decodeAll(docs, out)
}

// Set relies on jsonb concatenation, which replaces top-level keys in one
// statement and so needs no read-modify-write.
func (c *postgresCollection) Set(ctx context.Context, id string, fields map[string]any, out any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	query := `UPDATE documents SET body = body || $3::jsonb WHERE collection = $1 AND id = $2 RETURNING body`

	var body []byte
	err = c.db.QueryRowContext(ctx, query, c.name, id, string(patch)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *postgresCollection) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	result, err := c.db.ExecContext(ctx, query, c.name, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
