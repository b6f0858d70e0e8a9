package ibanledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	pgSelectAcctSQL = `
		SELECT id, iban, currency, balance, created_at
		FROM accounts
		WHERE iban = $1;
	`

	pgSelectAllAcctsSQL = `
		SELECT id, iban, currency, balance, created_at
		FROM accounts
		ORDER BY created_at;
	`

	pgUpsertAcctSQL = `
		INSERT INTO accounts (id, iban, currency, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (iban) DO UPDATE
		SET balance = EXCLUDED.balance
		RETURNING id, iban, currency, balance, created_at;
	`
)

type PostgresEndpoint struct {
	pool *pgxpool.Pool
	node *snowflake.Node
	log  *zerolog.Logger
}

var (
	_ Repository = (*PostgresEndpoint)(nil)
)

func NewPostgresEndpoint(connStr string, log *zerolog.Logger) (*PostgresEndpoint, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	endpt := &PostgresEndpoint{
		pool: pool,
		node: node,
		log:  log,
	}
	return endpt, err
}

func (pg *PostgresEndpoint) GetByIban(ctx context.Context, iban string) (*Account, error) {
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, pgSelectAcctSQL, strings.ToUpper(iban))
	acct, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound{Iban: iban}
		}
		return nil, ErrUnexpected{Cause: err}
	}
	return acct, nil
}

func (pg *PostgresEndpoint) GetAll(ctx context.Context) ([]Account, error) {
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, pgSelectAllAcctsSQL)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	defer rows.Close()

	accts := []Account{}
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, ErrUnexpected{Cause: err}
		}
		accts = append(accts, *acct)
	}
	if err = rows.Err(); err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	return accts, nil
}

func (pg *PostgresEndpoint) Upsert(ctx context.Context, acct Account) (*Account, error) {
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	defer conn.Release()

	if acct.ID == 0 {
		acct.ID = pg.node.Generate()
	}
	row := conn.QueryRow(ctx, pgUpsertAcctSQL,
		int64(acct.ID), acct.Iban, acct.Currency, acct.Balance, acct.CreatedAt)
	stored, err := scanAccount(row)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	return stored, nil
}

// UpsertMany writes the whole batch inside one transaction; a failure on any
// row rolls back every other.
func (pg *PostgresEndpoint) UpsertMany(ctx context.Context, accts []Account) ([]Account, error) {
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}

	batch := &pgx.Batch{}
	for _, a := range accts {
		if a.ID == 0 {
			a.ID = pg.node.Generate()
		}
		batch.Queue(pgUpsertAcctSQL,
			int64(a.ID), a.Iban, a.Currency, a.Balance, a.CreatedAt)
	}

	btresults := tx.SendBatch(ctx, batch)
	stored := make([]Account, 0, len(accts))
	for range accts {
		row := btresults.QueryRow()
		acct, err := scanAccount(row)
		if err != nil {
			btresults.Close()
			if rerr := tx.Rollback(ctx); rerr != nil {
				pg.log.Err(rerr).Msg("upsert batch rollback fail")
			}
			return nil, ErrUnexpected{Cause: err}
		}
		stored = append(stored, *acct)
	}
	if err = btresults.Close(); err != nil {
		if rerr := tx.Rollback(ctx); rerr != nil {
			pg.log.Err(rerr).Msg("upsert batch rollback fail")
		}
		return nil, ErrUnexpected{Cause: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	return stored, nil
}

func (pg *PostgresEndpoint) Close() {
	pg.pool.Close()
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		id      int64
		iban    string
		cur     string
		bal     decimal.Decimal
		created time.Time
	)
	if err := row.Scan(&id, &iban, &cur, &bal, &created); err != nil {
		return nil, err
	}
	return &Account{
		ID:        snowflake.ID(id),
		Iban:      iban,
		Currency:  cur,
		Balance:   bal,
		CreatedAt: created,
	}, nil
}
