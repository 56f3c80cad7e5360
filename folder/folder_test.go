package folder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/kv"
	"github.com/foliant-db/foliant/routing"
)

func newTestStore(t *testing.T) (*Store, routing.Scope) {
	t.Helper()
	dir := t.TempDir()
	store, err := kv.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	key, err := codec.NewKey([]byte("01234567890123456789012345678901"))
	require.NoError(t, err)

	return NewStore(store, key, nil), routing.Scope{Account: "acct"}
}

func newFolder(scope routing.Scope, name string) *Folder {
	nameCol := &column.Config{ID: "col-name", Name: "Name", Type: column.KindSmallText, Required: true}
	return &Folder{
		Name:         name,
		Scope:        scope,
		Columns:      map[string]*column.Config{nameCol.ID: nameCol},
		ColumnOrder:  []string{nameCol.ID},
		NameColumnID: nameCol.ID,
		Languages:    LanguageConfig{Codes: []string{"en"}, Default: "en"},
	}
}

func TestStoreCreateAssignsIDAndSlug(t *testing.T) {
	s, scope := newTestStore(t)
	f := newFolder(scope, "My Folder")

	require.NoError(t, s.Create(f))
	require.NotEmpty(t, f.ID)
	require.Equal(t, "my-folder", f.Slug)
}

func TestStoreCreateRejectsNameCollision(t *testing.T) {
	s, scope := newTestStore(t)
	require.NoError(t, s.Create(newFolder(scope, "People")))

	err := s.Create(newFolder(scope, "People"))
	require.Error(t, err)
}

func TestStoreGetByNameNotFound(t *testing.T) {
	s, scope := newTestStore(t)
	_, err := s.GetByName(scope, "Missing")
	require.Error(t, err)
}

func TestStoreGetByNameAndGetByID(t *testing.T) {
	s, scope := newTestStore(t)
	f := newFolder(scope, "People")
	require.NoError(t, s.Create(f))

	byName, err := s.GetByName(scope, "People")
	require.NoError(t, err)
	require.Equal(t, f.ID, byName.ID)

	byID, err := s.Get(scope, f.ID)
	require.NoError(t, err)
	require.Equal(t, "People", byID.Name)
}

func TestStoreUpdatePersistsChanges(t *testing.T) {
	s, scope := newTestStore(t)
	f := newFolder(scope, "People")
	require.NoError(t, s.Create(f))

	newCol := &column.Config{ID: "col-bio", Name: "Bio", Type: column.KindLongText}
	f.Columns[newCol.ID] = newCol
	f.ColumnOrder = append(f.ColumnOrder, newCol.ID)
	require.NoError(t, s.Update(f))

	reloaded, err := s.Get(scope, f.ID)
	require.NoError(t, err)
	require.True(t, reloaded.HasColumn("Bio"))
}

func TestStoreDeleteRemovesSchema(t *testing.T) {
	s, scope := newTestStore(t)
	f := newFolder(scope, "People")
	require.NoError(t, s.Create(f))

	require.NoError(t, s.Delete(scope, f.ID))
	_, err := s.GetByName(scope, "People")
	require.Error(t, err)
}

func TestStoreList(t *testing.T) {
	s, scope := newTestStore(t)
	require.NoError(t, s.Create(newFolder(scope, "People")))
	require.NoError(t, s.Create(newFolder(scope, "Companies")))

	all, err := s.List(scope)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestStoreHasColumnAndGetColumnByName(t *testing.T) {
	s, scope := newTestStore(t)
	f := newFolder(scope, "People")
	require.NoError(t, s.Create(f))

	has, err := s.HasColumn(scope, "People", "Name")
	require.NoError(t, err)
	require.True(t, has)

	has, err = s.HasColumn(scope, "People", "Nonexistent")
	require.NoError(t, err)
	require.False(t, has)

	cfg, err := s.GetColumnByName(scope, "People", "Name")
	require.NoError(t, err)
	require.Equal(t, "col-name", cfg.ID)

	_, err = s.GetColumnByName(scope, "People", "Missing")
	require.Error(t, err)
}

func TestStoreGetColumnByID(t *testing.T) {
	s, scope := newTestStore(t)
	f := newFolder(scope, "People")
	require.NoError(t, s.Create(f))

	cfg, err := s.GetColumnByID(scope, f.ID, "col-name")
	require.NoError(t, err)
	require.Equal(t, "Name", cfg.Name)

	_, err = s.GetColumnByID(scope, f.ID, "no-such-id")
	require.Error(t, err)
}

func TestRegisterLinkMirrorAddsBackReference(t *testing.T) {
	s, scope := newTestStore(t)
	owner := newFolder(scope, "Orders")
	remote := newFolder(scope, "Customers")
	require.NoError(t, s.Create(owner))
	require.NoError(t, s.Create(remote))

	linkCol := &column.Config{ID: "col-customer", Name: "Customer", Type: column.KindLink, LinkedFolder: remote.ID}
	owner.Columns[linkCol.ID] = linkCol
	owner.ColumnOrder = append(owner.ColumnOrder, linkCol.ID)
	require.NoError(t, s.Update(owner))

	require.NoError(t, s.RegisterLinkMirror(owner, remote, linkCol))
	require.Len(t, remote.LinkBackRefs, 1)
	require.Equal(t, owner.ID, remote.LinkBackRefs[0].FromFolder)

	reloaded, err := s.Get(scope, remote.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.LinkBackRefs, 1)
	require.True(t, reloaded.HasColumn("Orders (Customer)"))
}

func TestRegisterLinkMirrorIsIdempotent(t *testing.T) {
	s, scope := newTestStore(t)
	owner := newFolder(scope, "Orders")
	remote := newFolder(scope, "Customers")
	require.NoError(t, s.Create(owner))
	require.NoError(t, s.Create(remote))

	linkCol := &column.Config{ID: "col-customer", Name: "Customer", Type: column.KindLink, LinkedFolder: remote.ID}
	require.NoError(t, s.RegisterLinkMirror(owner, remote, linkCol))
	require.NoError(t, s.RegisterLinkMirror(owner, remote, linkCol))
	require.Len(t, remote.LinkBackRefs, 1)
}

func TestFolderColumnByNameCaseInsensitive(t *testing.T) {
	f := newFolder(routing.Scope{}, "People")
	cfg, ok := f.ColumnByName("name")
	require.True(t, ok)
	require.Equal(t, "Name", cfg.Name)

	_, ok = f.ColumnByName("missing")
	require.False(t, ok)
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "my-folder", Slugify("My Folder"))
	require.Equal(t, "hello-world", Slugify("  Hello, World!  "))
	require.Equal(t, "abc", Slugify("ABC"))
}
