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

// Package driver exposes an engine.Engine as a stdlib database/sql/driver,
// the same shape this file's own teacher wraps its sqle.Engine in —
// generalized here from MySQL wire query text to this project's own
// six-statement grammar (stmt.Compile) and from sqle.Engine.QueryWithBindings
// to engine.Engine.Execute.
package driver

import (
	"context"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/engine"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/identity"
	"github.com/foliant-db/foliant/kv"
	"github.com/foliant-db/foliant/routing"
)

// Driver implements database/sql/driver.Driver over engine.Engine,
// dedup-opening one kv.Store per resolved file path.
type Driver struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	refs   int
	store  *kv.Store
	engine *engine.Engine
}

// New returns a driver. Register it once at process start-up with
// sql.Register.
func New() *Driver {
	return &Driver{entries: map[string]*entry{}}
}

// Open returns a new connection to the database named by dsn.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector parses dsn and returns a reusable Connector. The DSN is a
// filesystem path to the boltdb file, optionally followed by query
// parameters: "key" (required, the hex-encoded 32-byte shared key),
// "account"/"site"/"space" (the routing scope, all optional, defaulting to
// the empty/private scope).
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	path, scope, keyHex, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	key, err := decodeKey(keyHex)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[path]
	if !ok {
		store, err := kv.Open(path)
		if err != nil {
			return nil, err
		}
		e = &entry{
			store:  store,
			engine: engine.Open(store, key, identity.New(), identity.NoopAudit{}, logrus.StandardLogger()),
		}
		d.entries[path] = e
	}
	e.refs++

	return &Connector{driver: d, path: path, scope: scope, engine: e.engine}, nil
}

// release drops one reference to the kv.Store backing path, closing it
// once the last Conn referencing it is closed.
func (d *Driver) release(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[path]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(d.entries, path)
	return e.store.Close()
}

func parseDSN(dsn string) (path string, scope routing.Scope, keyHex string, err error) {
	u, uerr := url.Parse(dsn)
	if uerr != nil || u.Scheme != "" {
		// Not recognizable as "path?query" — treat the whole string as a
		// bare file path with no parameters.
		return dsn, routing.Scope{}, "", nil
	}

	path = u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", routing.Scope{}, "", ferrors.SyntaxError.New("dsn names no database file path")
	}
	path = filepath.Clean(path)

	q := u.Query()
	scope = routing.Scope{Account: q.Get("account"), Site: q.Get("site"), Space: q.Get("space")}
	keyHex = q.Get("key")
	return path, scope, keyHex, nil
}

func decodeKey(keyHex string) (codec.Key, error) {
	if keyHex == "" {
		return codec.Key{}, ferrors.SyntaxError.New(`dsn is missing the "key" parameter`)
	}
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return codec.Key{}, ferrors.SyntaxError.Wrap(err, "decoding dsn key parameter")
	}
	return codec.NewKey(raw)
}

// Connector is a fixed configuration that can open any number of
// equivalent Conns, per database/sql/driver.Connector.
type Connector struct {
	driver *Driver
	path   string
	scope  routing.Scope
	engine *engine.Engine
}

// Driver returns the parent Driver.
func (c *Connector) Driver() driver.Driver { return c.driver }

// Connect returns a new Conn sharing this Connector's Engine.
func (c *Connector) Connect(context.Context) (driver.Conn, error) {
	return &Conn{connector: c, engine: c.engine, scope: c.scope}, nil
}

// String renders the connector's identity for debugging/logging.
func (c *Connector) String() string {
	return fmt.Sprintf("driver.Connector{path:%q, scope:%+v}", c.path, c.scope)
}
