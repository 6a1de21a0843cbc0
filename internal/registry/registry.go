// Package registry records completed ingests in Postgres so operators
// can audit what the vector store was built from. It is optional: with
// no DSN configured the pipeline runs without it.
package registry

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"lumen/internal/config"
)

// Ingest is one recorded pipeline run.
type Ingest struct {
	bun.BaseModel `bun:"table:ingests,alias:i"`

	ID         int64         `bun:"id,pk,autoincrement"`
	Title      string        `bun:"title,notnull"`
	Source     string        `bun:"source,notnull"`
	Pages      int           `bun:"pages,notnull"`
	Chunks     int           `bun:"chunks,notnull"`
	Duration   time.Duration `bun:"duration,notnull"`
	IngestedAt time.Time     `bun:"ingested_at,nullzero,notnull,default:current_timestamp"`
}

// Registry wraps the bun connection.
type Registry struct {
	db *bun.DB
}

// Connect opens the registry database from config. Password may be
// empty when the DSN carries credentials.
func Connect(cfg config.RegistryConfig) (*Registry, error) {
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Registry{db: db}, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}

// Init creates the ingests table if it does not exist yet.
func (r *Registry) Init(ctx context.Context) error {
	_, err := r.db.NewCreateTable().Model((*Ingest)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Record stores one completed ingest.
func (r *Registry) Record(ctx context.Context, entry *Ingest) error {
	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	return err
}

// List returns recorded ingests, newest first.
func (r *Registry) List(ctx context.Context, limit int) ([]Ingest, error) {
	var entries []Ingest
	err := r.db.NewSelect().
		Model(&entries).
		OrderExpr("ingested_at DESC").
		Limit(limit).
		Scan(ctx)
	return entries, err
}
