package search

import (
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/stmt"
)

// materialize implements §4.7's final step: render every (or every
// selected) column of a surviving candidate through column.Render, using
// the RenderContext already populated by enrichLinks/enrichStats.
func materialize(f *folder.Folder, q *stmt.SelectStmt, c candidate) (Row, error) {
	keep := map[string]bool{}
	if !q.All && len(q.Columns) > 0 {
		for _, name := range q.Columns {
			if cfg, ok := f.ColumnByName(name); ok {
				keep[cfg.ID] = true
			}
		}
	}

	data := map[string]interface{}{}
	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil {
			continue
		}
		if len(keep) > 0 && !keep[colID] {
			continue
		}
		// Text's stored value lives only in baseRowData's reconstruction
		// (the persisted item record never carries it, per
		// item/store.go's indexAndPersist), so c.row is authoritative here
		// too, not it.Data directly.
		rendered, err := column.Render(cfg, c.row[colID], c.rctx)
		if err != nil {
			return Row{}, err
		}
		data[cfg.Name] = rendered
	}

	return Row{ID: c.it.ID, Name: c.it.Name, Slug: c.it.Slug, Data: data}, nil
}
