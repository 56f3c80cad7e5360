package engine

import (
	"github.com/foliant-db/foliant/item"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/stmt"
)

// execUpdate applies q.Set to every item search.Pipeline.MatchItems finds
// against q.Where, reusing the exact WHERE-matching path SELECT uses (see
// search/search.go's matchWhere) so an UPDATE touches precisely the rows a
// SELECT with the same WHERE would return.
func (e *Engine) execUpdate(scope routing.Scope, q *stmt.UpdateStmt) ([]*item.Item, error) {
	span := e.span("foliant.update")
	defer span.Finish()

	f, items, err := e.Search.MatchItems(scope, q.FolderName, q.Where)
	if err != nil {
		return nil, err
	}
	out := make([]*item.Item, 0, len(items))
	for _, it := range items {
		updated, err := e.Items.Update(f, it.ID, q.Set)
		if err != nil {
			return out, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// execDelete deletes every item search.Pipeline.MatchItems finds against
// q.Where, the same shared WHERE-matching path execUpdate uses.
func (e *Engine) execDelete(scope routing.Scope, q *stmt.DeleteStmt) (int, error) {
	span := e.span("foliant.delete")
	defer span.Finish()

	f, items, err := e.Search.MatchItems(scope, q.FolderName, q.Where)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if err := e.Items.Delete(f, it.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
