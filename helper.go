package ibanledger

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
)

// LocalHelper bootstraps a local database for development and integration
// tests: schema from testdata/init_db.sql, demo accounts from a template.
type LocalHelper struct {
	Conn    *pgx.Conn
	Country string
}

func NewLocalHelper(cfg *Config) (*LocalHelper, error) {
	conn, err := pgx.Connect(context.Background(), cfg.Database.ConnectionString)
	if err != nil {
		return nil, err
	}

	return &LocalHelper{
		Conn:    conn,
		Country: cfg.Iban.Country,
	}, nil
}

func (lh *LocalHelper) InitDB() (func(), error) {
	initSQLpath := filepath.Join("testdata", "init_db.sql")
	bits, err := os.ReadFile(initSQLpath)
	if err != nil {
		return nil, err
	}
	if _, err = lh.Conn.Exec(context.Background(), string(bits)); err != nil {
		return nil, err
	}
	return lh.teardownDB(), err
}

type seedAccount struct {
	ID       snowflake.ID
	Iban     string
	Currency string
}

// SeedDemoAccounts inserts one empty account per currency so a fresh
// environment has something to poke at.
func (lh *LocalHelper) SeedDemoAccounts(currencies ...string) error {
	seedPath := filepath.Join("testdata", "seed_accounts.tmpl")
	bits, err := os.ReadFile(seedPath)
	if err != nil {
		return err
	}
	tmpl, err := template.New("seed_accounts").Parse(string(bits))
	if err != nil {
		return err
	}

	node, err := snowflake.NewNode(111)
	if err != nil {
		return err
	}
	gen := NewIbanGenerator()
	seeds := make([]seedAccount, 0, len(currencies))
	for _, c := range currencies {
		iban, err := gen.Generate(lh.Country)
		if err != nil {
			return err
		}
		seeds = append(seeds, seedAccount{
			ID:       node.Generate(),
			Iban:     iban,
			Currency: c,
		})
	}

	buf := new(bytes.Buffer)
	if err = tmpl.Execute(buf, seeds); err != nil {
		return err
	}

	if _, err = lh.Conn.Exec(context.Background(), buf.String()); err != nil {
		return err
	}

	return err
}

func (lh *LocalHelper) teardownDB() func() {
	return func() {
		defer lh.Conn.Close(context.Background())

		tearSQLpath := filepath.Join("testdata", "teardown_db.sql")
		bits, err := os.ReadFile(tearSQLpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup read teardown sql: %s", err.Error())
			return
		}
		if _, err = lh.Conn.Exec(context.Background(), string(bits)); err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup exec teardown sql: %s", err.Error())
			return
		}
	}
}
