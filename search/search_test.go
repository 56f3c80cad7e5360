package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/formula"
	"github.com/foliant-db/foliant/identity"
	"github.com/foliant-db/foliant/item"
	"github.com/foliant-db/foliant/kv"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/stmt"
)

func newHarness(t *testing.T) (*folder.Store, *item.Store, routing.Scope) {
	t.Helper()
	dir := t.TempDir()
	store, err := kv.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	key, err := codec.NewKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)

	folders := folder.NewStore(store, key, nil)
	items := item.NewStore(store, key, folders, identity.Named("tester"), nil, nil)
	items.Formula = formula.New()
	return folders, items, routing.Scope{Account: "acct"}
}

func mkFolder(t *testing.T, folders *folder.Store, scope routing.Scope, name string, cols ...*column.Config) *folder.Folder {
	t.Helper()
	order := make([]string, len(cols))
	byID := map[string]*column.Config{}
	var nameCol string
	for i, c := range cols {
		order[i] = c.ID
		byID[c.ID] = c
		if c.Type == column.KindSmallText && nameCol == "" {
			nameCol = c.ID
		}
	}
	f := &folder.Folder{
		Name:         name,
		Scope:        scope,
		ColumnOrder:  order,
		Columns:      byID,
		NameColumnID: nameCol,
		Languages:    folder.LanguageConfig{Codes: []string{"en"}, Default: "en"},
	}
	require.NoError(t, folders.Create(f))
	return f
}

func selectAll(folderName string) *stmt.SelectStmt {
	return &stmt.SelectStmt{FolderName: folderName, All: true, Page: 1, NumberItems: 20}
}

func TestExecuteSelectAll(t *testing.T) {
	folders, items, scope := newHarness(t)
	nameCol := &column.Config{ID: "c1", Name: "Name", Type: column.KindSmallText, Required: true}
	ageCol := &column.Config{ID: "c2", Name: "Age", Type: column.KindNumber}
	f := mkFolder(t, folders, scope, "People", nameCol, ageCol)

	_, err := items.Insert(f, map[string][]string{"Name": {"Ada"}, "Age": {"37"}})
	require.NoError(t, err)
	_, err = items.Insert(f, map[string][]string{"Name": {"Bob"}, "Age": {"22"}})
	require.NoError(t, err)

	p := New(folders, items, formula.New())
	res, err := p.Execute(scope, selectAll(f.Name))
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Len(t, res.Rows, 2)
}

func TestExecuteWhereAndSort(t *testing.T) {
	folders, items, scope := newHarness(t)
	nameCol := &column.Config{ID: "c1", Name: "Name", Type: column.KindSmallText, Required: true}
	ageCol := &column.Config{ID: "c2", Name: "Age", Type: column.KindNumber}
	f := mkFolder(t, folders, scope, "People", nameCol, ageCol)

	_, err := items.Insert(f, map[string][]string{"Name": {"Ada"}, "Age": {"37"}})
	require.NoError(t, err)
	_, err = items.Insert(f, map[string][]string{"Name": {"Bob"}, "Age": {"22"}})
	require.NoError(t, err)
	_, err = items.Insert(f, map[string][]string{"Name": {"Cy"}, "Age": {"45"}})
	require.NoError(t, err)

	p := New(folders, items, formula.New())
	q := selectAll(f.Name)
	q.Where = "Age >= 30"
	q.SortBy = []stmt.SortItem{{Column: "Age", Desc: true}}
	res, err := p.Execute(scope, q)
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	require.Equal(t, "Cy", res.Rows[0].Name)
	require.Equal(t, "Ada", res.Rows[1].Name)
}

func TestExecuteCountDistinct(t *testing.T) {
	folders, items, scope := newHarness(t)
	nameCol := &column.Config{ID: "c1", Name: "Name", Type: column.KindSmallText, Required: true}
	cityCol := &column.Config{ID: "c2", Name: "City", Type: column.KindSmallText}
	f := mkFolder(t, folders, scope, "People", nameCol, cityCol)

	_, err := items.Insert(f, map[string][]string{"Name": {"Ada"}, "City": {"NYC"}})
	require.NoError(t, err)
	_, err = items.Insert(f, map[string][]string{"Name": {"Bob"}, "City": {"NYC"}})
	require.NoError(t, err)
	_, err = items.Insert(f, map[string][]string{"Name": {"Cy"}, "City": {"LA"}})
	require.NoError(t, err)

	p := New(folders, items, formula.New())
	q := selectAll(f.Name)
	q.Count = &stmt.CountSpec{Distinct: true, Column: "City"}
	res, err := p.Execute(scope, q)
	require.NoError(t, err)
	require.NotNil(t, res.Count)
	require.Equal(t, 2, *res.Count)
}

func TestExecuteSearchClause(t *testing.T) {
	folders, items, scope := newHarness(t)
	nameCol := &column.Config{ID: "c1", Name: "Name", Type: column.KindSmallText, Required: true}
	bioCol := &column.Config{ID: "c2", Name: "Bio", Type: column.KindLongText}
	f := mkFolder(t, folders, scope, "People", nameCol, bioCol)

	_, err := items.Insert(f, map[string][]string{"Name": {"Ada"}, "Bio": {"loves mathematics and computing"}})
	require.NoError(t, err)
	_, err = items.Insert(f, map[string][]string{"Name": {"Bob"}, "Bio": {"enjoys painting and sculpture"}})
	require.NoError(t, err)

	p := New(folders, items, formula.New())
	q := selectAll(f.Name)
	q.Search = "computing"
	res, err := p.Execute(scope, q)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, "Ada", res.Rows[0].Name)
}

func TestExecuteLinkRendering(t *testing.T) {
	folders, items, scope := newHarness(t)
	custName := &column.Config{ID: "cc1", Name: "Name", Type: column.KindSmallText, Required: true}
	customers := mkFolder(t, folders, scope, "Customers", custName)

	orderName := &column.Config{ID: "oc1", Name: "Name", Type: column.KindSmallText, Required: true}
	customerLink := &column.Config{ID: "oc2", Name: "Customer", Type: column.KindLink, LinkedFolder: customers.ID}
	orders := mkFolder(t, folders, scope, "Orders", orderName, customerLink)

	cust, err := items.Insert(customers, map[string][]string{"Name": {"Acme"}})
	require.NoError(t, err)
	_, err = items.Insert(orders, map[string][]string{"Name": {"O1"}, "Customer": {cust.ID}})
	require.NoError(t, err)

	p := New(folders, items, formula.New())
	res, err := p.Execute(scope, selectAll(orders.Name))
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	link, ok := res.Rows[0].Data["Customer"].(map[string]string)
	require.True(t, ok)
	require.Equal(t, "Acme", link["Name"])
}
