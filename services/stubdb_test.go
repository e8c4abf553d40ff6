package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
)

// Services open real transactions around their repository calls. Tests stub
// the repositories, so the handle only has to hand out transactions that
// commit without a server behind them.

type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements are not supported")
}
func (nopConn) Close() error              { return nil }
func (nopConn) Begin() (driver.Tx, error) { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func init() { sql.Register("nopdb", nopDriver{}) }

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("nopdb", "")
	if err != nil {
		t.Fatalf("failed to open stub database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
