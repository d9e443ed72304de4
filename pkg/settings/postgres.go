package settings

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/autoses/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsTable is the goose version table used by Migrate.
const MigrationsTable = "autoses_schema_migrations"

// Migrate applies the settings schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	return db.Migrate(ctx, pool, sub, MigrationsTable, log)
}

const (
	selectOption = `SELECT value FROM autoses_options WHERE name = $1`
	upsertOption = `INSERT INTO autoses_options (name, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteOption = `DELETE FROM autoses_options WHERE name = $1`
)

// Postgres stores settings as JSONB rows keyed by option name.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed store. Run Migrate first.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Options(ctx context.Context) (Options, error) {
	data, err := p.get(ctx, OptionsKey)
	if err != nil {
		return Options{}, err
	}
	return decodeOptions(data)
}

func (p *Postgres) SaveOptions(ctx context.Context, opts Options) error {
	data, err := encodeOptions(opts)
	if err != nil {
		return err
	}
	return p.put(ctx, OptionsKey, data)
}

func (p *Postgres) Enabled(ctx context.Context) (bool, error) {
	data, err := p.get(ctx, EnabledKey)
	if err != nil || data == nil {
		return false, err
	}
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err != nil {
		return false, errors.Join(ErrDecode, err)
	}
	return enabled, nil
}

func (p *Postgres) SetEnabled(ctx context.Context, enabled bool) error {
	data, _ := json.Marshal(enabled)
	return p.put(ctx, EnabledKey, data)
}

// Reset deletes both rows in a single transaction.
func (p *Postgres) Reset(ctx context.Context) error {
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		for _, name := range []string{OptionsKey, EnabledKey} {
			if _, err := tx.Exec(ctx, deleteOption, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

func (p *Postgres) get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, selectOption, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	return data, nil
}

func (p *Postgres) put(ctx context.Context, name string, data []byte) error {
	if _, err := p.pool.Exec(ctx, upsertOption, name, data); err != nil {
		return errors.Join(ErrWrite, err)
	}
	return nil
}

var _ Store = (*Postgres)(nil)
