package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/identity"
	"github.com/foliant-db/foliant/item"
	"github.com/foliant-db/foliant/kv"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/search"
	"github.com/foliant-db/foliant/stmt"
)

func newTestEngine(t *testing.T) (*Engine, routing.Scope) {
	t.Helper()
	dir := t.TempDir()
	store, err := kv.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	key, err := codec.NewKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)

	e := Open(store, key, identity.Named("tester"), identity.NoopAudit{}, nil)
	return e, routing.Scope{Account: "acct"}
}

func compile(t *testing.T, text string) interface{} {
	t.Helper()
	out, err := stmt.Compile(text)
	require.NoError(t, err)
	return out
}

func TestEngineLifecycle(t *testing.T) {
	e, scope := newTestEngine(t)

	_, err := e.Execute(scope, compile(t, `CREATE FOLDER People (Name SmallText Required, Bio LongText);`))
	require.NoError(t, err)

	insOut, err := e.Execute(scope, compile(t, `INSERT INTO FOLDER People (Name = "Ada", Bio = "computing pioneer");`))
	require.NoError(t, err)
	inserted, ok := insOut.([]*item.Item)
	require.True(t, ok)
	require.Len(t, inserted, 1)

	_, err = e.Execute(scope, compile(t, `INSERT INTO FOLDER People (Name = "Bob", Bio = "painter");`))
	require.NoError(t, err)

	selOut, err := e.Execute(scope, compile(t, `SELECT * FROM "People";`))
	require.NoError(t, err)
	res, ok := selOut.(*search.Result)
	require.True(t, ok)
	require.Equal(t, 2, res.Total)

	updOut, err := e.Execute(scope, compile(t, `UPDATE FOLDER People SET (Bio = "updated bio") WHERE Name = "Ada";`))
	require.NoError(t, err)
	updated, ok := updOut.([]*item.Item)
	require.True(t, ok)
	require.Len(t, updated, 1)

	selOut2, err := e.Execute(scope, compile(t, `SELECT * FROM "People" WHERE Name = "Ada";`))
	require.NoError(t, err)
	res2 := selOut2.(*search.Result)
	require.Equal(t, 1, res2.Total)
	require.Equal(t, "updated bio", res2.Rows[0].Data["Bio"])

	delOut, err := e.Execute(scope, compile(t, `DELETE FROM FOLDER People WHERE Name = "Bob";`))
	require.NoError(t, err)
	n, ok := delOut.(int)
	require.True(t, ok)
	require.Equal(t, 1, n)

	selOut3, err := e.Execute(scope, compile(t, `SELECT * FROM "People";`))
	require.NoError(t, err)
	res3 := selOut3.(*search.Result)
	require.Equal(t, 1, res3.Total)

	_, err = e.Execute(scope, compile(t, `DROP FOLDER People;`))
	require.NoError(t, err)

	_, err = e.Folders.GetByName(scope, "People")
	require.Error(t, err)
}
