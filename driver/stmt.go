// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"context"
	"database/sql/driver"

	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/item"
	"github.com/foliant-db/foliant/search"
)

// Stmt is a prepared statement: the raw text plus its already-compiled IR.
type Stmt struct {
	conn     *Conn
	queryStr string
	compiled interface{}
}

// Close does nothing; the compiled IR is held by value and needs no
// teardown.
func (s *Stmt) Close() error {
	return nil
}

// NumInput reports that this grammar has no bound placeholders: every
// value is a literal inlined into the statement text by stmt.Compile's own
// literal-extraction pass, not supplied as a separate parameter list.
func (s *Stmt) NumInput() int {
	return 0
}

// Exec runs a statement that doesn't return rows (INSERT/UPDATE/DELETE/
// CREATE FOLDER/DROP FOLDER).
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.exec(context.Background())
}

// Query runs a statement that returns rows (SELECT/COUNT).
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.query(context.Background())
}

// ExecContext runs a statement that doesn't return rows, honoring ctx.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	return s.exec(ctx)
}

// QueryContext runs a statement that returns rows, honoring ctx.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	return s.query(ctx)
}

func (s *Stmt) exec(ctx context.Context) (driver.Result, error) {
	out, err := s.conn.engine.Execute(s.conn.scope, s.compiled)
	if err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case []*item.Item:
		return &Result{rowsAffected: int64(len(v))}, nil
	case int:
		return &Result{rowsAffected: int64(v)}, nil
	case *search.Result:
		return &Result{rowsAffected: int64(v.Total)}, nil
	case nil:
		return &Result{rowsAffected: 0}, nil
	default:
		return nil, ferrors.BackendError.New("unrecognized execution result")
	}
}

func (s *Stmt) query(ctx context.Context) (driver.Rows, error) {
	out, err := s.conn.engine.Execute(s.conn.scope, s.compiled)
	if err != nil {
		return nil, err
	}
	res, ok := out.(*search.Result)
	if !ok {
		// A non-SELECT statement run through Query: return an already-
		// exhausted result set rather than erroring.
		return &Rows{}, nil
	}
	return newRows(res), nil
}
