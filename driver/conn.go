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
	"database/sql/driver"

	"github.com/foliant-db/foliant/engine"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/stmt"
)

// Conn is a connection to a database, bound to one routing scope.
type Conn struct {
	connector *Connector
	engine    *engine.Engine
	scope     routing.Scope
	closed    bool
}

// Prepare validates the statement text up front via stmt.Compile, the
// same "parse once at Prepare time" discipline the teacher's own
// Conn.Prepare applies via AnalyzeQuery, so a malformed statement fails
// before Exec/Query instead of mid-execution.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	compiled, err := stmt.Compile(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: c, queryStr: query, compiled: compiled}, nil
}

// Close releases this Conn's reference to its underlying kv.Store,
// closing the file once every Conn sharing it has closed.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.connector.driver.release(c.connector.path)
}

// Begin returns a no-op transaction; cross-statement transactional
// atomicity is a Non-goal (each statement already commits its own
// boltdb transaction).
func (c *Conn) Begin() (driver.Tx, error) {
	return fakeTransaction{}, nil
}

type fakeTransaction struct{}

func (fakeTransaction) Commit() error   { return nil }
func (fakeTransaction) Rollback() error { return nil }
