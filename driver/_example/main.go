// Copyright 2020-2023 Dolthub, Inc.
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

package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/foliant-db/foliant/driver"
)

func main() {
	sql.Register("foliant", driver.New())

	db, err := sql.Open("foliant", "./mydb.bolt?key=3031323334353637383930313233343536373839303132333435363738393031")
	must(err)

	_, err = db.Exec(`CREATE FOLDER People (Name SmallText Required, Email Email, Bio LongText);`)
	must(err)

	_, err = db.Exec(`INSERT INTO FOLDER People (Name = "John Doe", Email = "john@doe.com", Bio = "enjoys long walks");`)
	must(err)

	rows, err := db.Query(`SELECT * FROM "People";`)
	must(err)
	dump(rows)
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func dump(rows *sql.Rows) {
	cols, err := rows.Columns()
	must(err)

	for rows.Next() {
		dest := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		must(rows.Scan(ptrs...))
		fmt.Println(dest...)
	}
}
