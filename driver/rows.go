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
	"io"
	"sort"

	"github.com/foliant-db/foliant/search"
)

// Rows is an iterator over a SELECT/COUNT result. Column order is id,
// name, slug followed by the data columns every row shares, sorted by
// name — search.Row.Data is a map, so there's no persisted column order to
// recover here the way search/materialize.go's own column.Render pass has
// one via folder.Folder.ColumnOrder.
type Rows struct {
	cols []string
	rows []search.Row
	next int
}

func newRows(res *search.Result) *Rows {
	dataCols := map[string]bool{}
	for _, r := range res.Rows {
		for name := range r.Data {
			dataCols[name] = true
		}
	}
	names := make([]string, 0, len(dataCols))
	for name := range dataCols {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := append([]string{"id", "name", "slug"}, names...)
	return &Rows{cols: cols, rows: res.Rows}
}

// Columns returns the result's column names.
func (r *Rows) Columns() []string {
	return r.cols
}

// Close ends the iteration; there is nothing underneath it to release.
func (r *Rows) Close() error {
	r.next = len(r.rows)
	return nil
}

// Next populates dest with the next row's values, converted to a
// database/sql/driver-safe representation by convertValue.
func (r *Rows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.next]
	r.next++

	for i, col := range r.cols {
		switch col {
		case "id":
			dest[i] = row.ID
		case "name":
			dest[i] = row.Name
		case "slug":
			dest[i] = row.Slug
		default:
			dest[i] = convertValue(row.Data[col])
		}
	}
	return nil
}
