package result

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/search"
)

func TestRenderSelect(t *testing.T) {
	nameCfg := &column.Config{ID: "c1", Name: "Name", Type: column.KindSmallText}
	bioCfg := &column.Config{ID: "c2", Name: "Bio", Type: column.KindLongText}
	f := &folder.Folder{
		ColumnOrder: []string{"c1", "c2"},
		Columns:     map[string]*column.Config{"c1": nameCfg, "c2": bioCfg},
	}
	res := &search.Result{
		Total: 1, Page: 1, NumberItems: 20,
		Rows: []search.Row{
			{ID: "id1", Name: "Ada", Slug: "ada", Data: map[string]interface{}{
				"Name": "Ada", "Bio": "Loves math",
			}},
		},
	}

	out, err := Render(f, res, 5)
	require.NoError(t, err)
	text := string(out)
	require.Contains(t, text, "total: 1")
	require.Contains(t, text, "data_count: 1")
	require.Contains(t, text, `Bio: "Loves math"`)
	require.Contains(t, text, "Name: Ada")
}

func TestRenderCount(t *testing.T) {
	n := 7
	res := &search.Result{Total: 7, Count: &n}
	f := &folder.Folder{}
	out, err := Render(f, res, 2)
	require.NoError(t, err)
	require.Contains(t, string(out), "count: 7")
}
