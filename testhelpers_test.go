package joinery

import (
	"context"
	"database/sql"
	sqlDriver "database/sql/driver"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
)

type testQueryResult struct {
	columns []string
	rows    [][]sqlDriver.Value
	err     error
}

type testConn struct {
	mu      sync.Mutex
	queries []testQueryResult
	qIdx    int
	seen    []string
}

func (c *testConn) Prepare(query string) (sqlDriver.Stmt, error) {
	c.mu.Lock()
	c.seen = append(c.seen, query)
	c.mu.Unlock()
	return &testStmt{conn: c}, nil
}

func (c *testConn) Close() error { return nil }

func (c *testConn) Begin() (sqlDriver.Tx, error) {
	return nil, fmt.Errorf("transactions not supported")
}

type testStmt struct{ conn *testConn }

func (s *testStmt) Close() error  { return nil }
func (s *testStmt) NumInput() int { return -1 }

func (s *testStmt) Exec(_ []sqlDriver.Value) (sqlDriver.Result, error) {
	return nil, fmt.Errorf("exec not supported")
}

func (s *testStmt) Query(_ []sqlDriver.Value) (sqlDriver.Rows, error) {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	if s.conn.qIdx >= len(s.conn.queries) {
		return nil, fmt.Errorf("no more query results")
	}
	r := s.conn.queries[s.conn.qIdx]
	s.conn.qIdx++
	if r.err != nil {
		return nil, r.err
	}
	return &testDriverRows{columns: r.columns, data: r.rows}, nil
}

type testDriverRows struct {
	columns []string
	data    [][]sqlDriver.Value
	pos     int
}

func (r *testDriverRows) Columns() []string { return r.columns }
func (r *testDriverRows) Close() error      { return nil }

func (r *testDriverRows) Next(dest []sqlDriver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

type testConnector struct{ conn *testConn }

func (c *testConnector) Connect(_ context.Context) (sqlDriver.Conn, error) {
	return c.conn, nil
}

func (c *testConnector) Driver() sqlDriver.Driver { return &dummyFakeDriver{} }

type dummyFakeDriver struct{}

func (d *dummyFakeDriver) Open(_ string) (sqlDriver.Conn, error) {
	return nil, fmt.Errorf("not implemented")
}

func newTestDB(t *testing.T, conn *testConn) *sqlx.DB {
	t.Helper()
	db := sql.OpenDB(&testConnector{conn: conn})
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres")
}

// rowsOf builds a query result from column names and row values.
func rowsOf(columns []string, rows ...[]sqlDriver.Value) testQueryResult {
	return testQueryResult{columns: columns, rows: rows}
}
