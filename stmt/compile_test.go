package stmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileInsert(t *testing.T) {
	text := `INSERT INTO FOLDER People (Name = "Ada", Age = 37, Active = true);`
	out, err := Compile(text)
	require.NoError(t, err)
	ins, ok := out.(*InsertStmt)
	require.True(t, ok)
	require.Equal(t, "People", ins.FolderName)
	require.Len(t, ins.Rows, 1)
	require.Equal(t, []string{"Ada"}, ins.Rows[0].Data["Name"])
	require.Equal(t, []string{"37"}, ins.Rows[0].Data["Age"])
}

func TestCompileInsertMultipleItemsAndTripleQuoted(t *testing.T) {
	text := `INSERT INTO FOLDER Notes (Title = "A", Body = """line one, line two"""), (Title = "B", Body = "short");`
	out, err := Compile(text)
	require.NoError(t, err)
	ins := out.(*InsertStmt)
	require.Len(t, ins.Rows, 2)
	require.Equal(t, []string{"line one, line two"}, ins.Rows[0].Data["Body"])
	require.Equal(t, []string{"short"}, ins.Rows[1].Data["Body"])
}

func TestCompileInsertSubFolder(t *testing.T) {
	text := `INSERT INTO FOLDER People (Name = "Ada", SUB FOLDER abc123 WITH IsReference = true);`
	out, err := Compile(text)
	require.NoError(t, err)
	ins := out.(*InsertStmt)
	require.Len(t, ins.Rows[0].SubFolders, 1)
	require.Equal(t, "abc123", ins.Rows[0].SubFolders[0].ID)
	require.True(t, ins.Rows[0].SubFolders[0].IsReference)
}

func TestCompileSelectAll(t *testing.T) {
	out, err := Compile(`SELECT * FROM "People";`)
	require.NoError(t, err)
	sel := out.(*SelectStmt)
	require.True(t, sel.All)
	require.Equal(t, "People", sel.FolderName)
	require.Equal(t, 1, sel.Page)
	require.Equal(t, 20, sel.NumberItems)
}

func TestCompileSelectWhereSortPage(t *testing.T) {
	text := `SELECT Name FROM "People" WHERE AND(Age>=30, Age<=50) SORT BY {Age DESC} PAGE 1 NUMBER ITEMS 2;`
	out, err := Compile(text)
	require.NoError(t, err)
	sel := out.(*SelectStmt)
	require.Equal(t, []string{"Name"}, sel.Columns)
	require.Equal(t, "AND(Age>=30, Age<=50)", sel.Where)
	require.Len(t, sel.SortBy, 1)
	require.Equal(t, "Age", sel.SortBy[0].Column)
	require.True(t, sel.SortBy[0].Desc)
	require.Equal(t, 1, sel.Page)
	require.Equal(t, 2, sel.NumberItems)
}

func TestCompileSelectSearchWrapsWhere(t *testing.T) {
	out, err := Compile(`SELECT * FROM "Notes" WHERE Active SEARCH "hello world";`)
	require.NoError(t, err)
	sel := out.(*SelectStmt)
	require.Equal(t, `AND(SEARCH("Text", "hello world"), Active)`, sel.Where)
}

func TestCompileCount(t *testing.T) {
	out, err := Compile(`COUNT(DISTINCT Age) FROM "People";`)
	require.NoError(t, err)
	sel := out.(*SelectStmt)
	require.NotNil(t, sel.Count)
	require.True(t, sel.Count.Distinct)
	require.Equal(t, "Age", sel.Count.Column)
}

func TestCompileUpdate(t *testing.T) {
	out, err := Compile(`UPDATE FOLDER People SET (Age = 38) WHERE Name = "Ada";`)
	require.NoError(t, err)
	upd := out.(*UpdateStmt)
	require.Equal(t, "People", upd.FolderName)
	require.Equal(t, []string{"38"}, upd.Set["Age"])
	require.Equal(t, `Name = "Ada"`, upd.Where)
}

func TestCompileDelete(t *testing.T) {
	out, err := Compile(`DELETE FROM FOLDER People WHERE Name = "Ada";`)
	require.NoError(t, err)
	del := out.(*DeleteStmt)
	require.Equal(t, "People", del.FolderName)
	require.Equal(t, `Name = "Ada"`, del.Where)
}

func TestCompileCreateFolder(t *testing.T) {
	text := `CREATE FOLDER People (Name SmallText Required, Age Number, Tags SmallText Set(1,3));`
	out, err := Compile(text)
	require.NoError(t, err)
	cf := out.(*CreateFolderStmt)
	require.Equal(t, "People", cf.FolderName)
	require.Len(t, cf.Columns, 3)
	require.Equal(t, "Name", cf.Columns[0].Name)
	require.True(t, cf.Columns[0].Required)
	require.NotNil(t, cf.Columns[2].SetMin)
	require.Equal(t, 1, *cf.Columns[2].SetMin)
	require.Equal(t, 3, *cf.Columns[2].SetMax)
}

func TestCompileDropFolder(t *testing.T) {
	out, err := Compile(`DROP FOLDER People;`)
	require.NoError(t, err)
	df := out.(*DropFolderStmt)
	require.Equal(t, "People", df.FolderName)
}

func TestCompileUnrecognized(t *testing.T) {
	_, err := Compile(`FROBNICATE FOLDER People;`)
	require.Error(t, err)
}
