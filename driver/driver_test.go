package driver_test

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/driver"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dsn := fmt.Sprintf("%s?key=3031323334353637383930313233343536373839303132333435363738393031",
		filepath.Join(dir, "test.db"))

	drv := driver.New()
	name := "foliant-test-" + t.Name()
	sql.Register(name, drv)

	db, err := sql.Open(name, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDriverLifecycle(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE FOLDER People (Name SmallText Required, Bio LongText);`)
	require.NoError(t, err)

	res, err := db.Exec(`INSERT INTO FOLDER People (Name = "Ada", Bio = "computing pioneer");`)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	rows, err := db.Query(`SELECT * FROM "People";`)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)
	require.Contains(t, cols, "Name")
	require.Contains(t, cols, "Bio")

	count := 0
	for rows.Next() {
		count++
		dest := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
	}
	require.NoError(t, rows.Err())
	require.Equal(t, 1, count)

	delRes, err := db.Exec(`DELETE FROM FOLDER People WHERE Name = "Ada";`)
	require.NoError(t, err)
	n, err = delRes.RowsAffected()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = db.Exec(`DROP FOLDER People;`)
	require.NoError(t, err)
}

func TestDriverRejectsMissingKey(t *testing.T) {
	dir := t.TempDir()
	drv := driver.New()
	name := "foliant-test-nokey-" + t.Name()
	sql.Register(name, drv)

	db, err := sql.Open(name, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	err = db.Ping()
	require.Error(t, err)
}
