// Package search implements the read pipeline behind SELECT/COUNT
// statements (spec §4.7): iterate every populated partition of a folder,
// enrich each item with its LINK/REFERENCE/STATS derived values, evaluate
// WHERE, build a sort tuple, sort, page, and materialize the surviving
// rows' rendered column values.
//
// Grounded on original_source/src/storage/query.rs's four-phase
// iterate/filter/sort/materialize shape and on item/store.go's existing
// LINK-mirroring and Stats-resolving conventions, reused here for the read
// side.
package search

import (
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure"

	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/item"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/stmt"
)

// Row is one materialized result row, ready for the result serializer.
type Row struct {
	ID   string
	Name string
	Slug string
	Data map[string]interface{}
}

// Result is the full outcome of a SELECT/COUNT statement.
type Result struct {
	Total       int
	Page        int
	NumberItems int
	Rows        []Row
	Count       *int
}

// Pipeline binds the stores a search needs: the folder schema store (to
// resolve LINK/REFERENCE targets and the queried folder itself) and the
// item store (to iterate partitions and fetch LINK/STATS target items).
type Pipeline struct {
	Folders *folder.Store
	Items   *item.Store
	Formula column.FormulaEvaluator
}

// New builds a Pipeline over already-open stores.
func New(folders *folder.Store, items *item.Store, formula column.FormulaEvaluator) *Pipeline {
	return &Pipeline{Folders: folders, Items: items, Formula: formula}
}

// candidate is one item mid-pipeline: its raw record, the enriched RowData
// used for WHERE/sort, and the render context built while enriching.
type candidate struct {
	it   *item.Item
	row  column.RowData
	rctx *column.RenderContext
}

// Execute runs the full §4.7 pipeline for a compiled SELECT/COUNT
// statement against scope.
func (p *Pipeline) Execute(scope routing.Scope, q *stmt.SelectStmt) (*Result, error) {
	f, err := p.Folders.GetByName(scope, q.FolderName)
	if err != nil {
		return nil, err
	}
	if err := validateColumnRefs(f, q); err != nil {
		return nil, err
	}

	survivors, relevance, err := p.matchWhere(f, q.Where, q.Search)
	if err != nil {
		return nil, err
	}

	if q.Count != nil {
		n, err := countRows(f, q.Count, survivors)
		if err != nil {
			return nil, err
		}
		return &Result{Total: len(survivors), Count: &n}, nil
	}

	tuples := make([]sortTuple, len(survivors))
	for i, c := range survivors {
		tuples[i] = buildSortTuple(f, q.SortBy, c, relevance)
	}
	idx := make([]int, len(survivors))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		cmp := tuples[idx[a]].compare(tuples[idx[b]])
		if cmp != 0 {
			return cmp < 0
		}
		return survivors[idx[a]].it.ID < survivors[idx[b]].it.ID
	})

	total := len(survivors)
	page := q.Page
	if page < 1 {
		page = 1
	}
	// q.NumberItems is never negative: the compiler defaults an absent
	// clause to 20 and an explicit clause only ever matches \d+ (stmt/select.go),
	// so a literal "NUMBER ITEMS 0" survives here and yields zero rows while
	// Total still reflects the full match, per the boundary behavior spec.
	numberItems := q.NumberItems
	start := (page - 1) * numberItems
	if start > total {
		start = total
	}
	end := start + numberItems
	if end > total {
		end = total
	}

	rows := make([]Row, 0, end-start)
	for _, i := range idx[start:end] {
		c := survivors[i]
		rendered, err := materialize(f, q, c)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rendered)
	}

	return &Result{Total: total, Page: page, NumberItems: numberItems, Rows: rows}, nil
}

// matchWhere runs the shared iterate/enrich/filter core: every item in f is
// loaded, optionally pre-filtered by an index-backed SEARCH term, enriched
// with its LINK/STATS derived values, and kept only if it satisfies where
// (empty where keeps everything). UPDATE and DELETE reuse this exact path
// so a row they touch is one SELECT would also have matched, per
// original_source/src/storage/query.rs's single row-matching loop shared by
// every statement kind.
func (p *Pipeline) matchWhere(f *folder.Folder, where, search string) ([]candidate, map[string]int, error) {
	items, err := p.Items.All(f)
	if err != nil {
		return nil, nil, err
	}
	var relevance map[string]int
	if search != "" {
		relevance, err = p.Items.SearchItemIDs(f, search)
		if err != nil {
			return nil, nil, err
		}
		filtered := items[:0]
		for _, it := range items {
			if _, ok := relevance[it.ID]; ok {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	linkNameCache := map[string]map[string]string{} // folder id -> item id -> name
	linkItemCache := map[string]map[string]*item.Item{}

	var compiled column.CompiledFormula
	if where != "" {
		compiled, err = p.Formula.Compile(where, column.FormulaFormatCheck, f.Columns)
		if err != nil {
			return nil, nil, err
		}
	}

	var survivors []candidate
	for _, it := range items {
		row := baseRowData(f, it)
		rctx := &column.RenderContext{LinkNames: map[string]string{}, ReferenceValues: map[string]string{}}

		if err := p.enrichLinks(f, it, row, rctx, linkNameCache, linkItemCache); err != nil {
			return nil, nil, err
		}
		if err := p.enrichStats(f, row); err != nil {
			return nil, nil, err
		}

		if compiled != nil {
			result, err := p.Formula.Eval(compiled, row, f.Columns)
			if err != nil {
				return nil, nil, err
			}
			if result != "1" {
				continue
			}
		}
		survivors = append(survivors, candidate{it: it, row: row, rctx: rctx})
	}
	return survivors, relevance, nil
}

// MatchItems resolves f by name within scope and returns every item
// matching where (ignoring SEARCH/sort/page), for callers outside this
// package — engine's UPDATE/DELETE handlers — that need the same
// WHERE-matching semantics SELECT uses without the read-side materialize
// step.
func (p *Pipeline) MatchItems(scope routing.Scope, folderName, where string) (*folder.Folder, []*item.Item, error) {
	f, err := p.Folders.GetByName(scope, folderName)
	if err != nil {
		return nil, nil, err
	}
	survivors, _, err := p.matchWhere(f, where, "")
	if err != nil {
		return nil, nil, err
	}
	out := make([]*item.Item, len(survivors))
	for i, c := range survivors {
		out[i] = c.it
	}
	return f, out, nil
}

// validateColumnRefs confirms every column named by SELECT/SORT BY/GROUP BY
// exists, collecting every violation per §4.6's "collect all violations
// before returning" discipline.
func validateColumnRefs(f *folder.Folder, q *stmt.SelectStmt) error {
	var errs ferrors.List
	for _, name := range q.Columns {
		if !f.HasColumn(name) {
			errs.Add(ferrors.SchemaError.New("no such column " + name + " on folder " + f.Name))
		}
	}
	for _, s := range q.SortBy {
		if !f.HasColumn(s.Column) {
			errs.Add(ferrors.SchemaError.New("no such column " + s.Column + " on folder " + f.Name))
		}
	}
	for _, name := range q.GroupBy {
		if !f.HasColumn(name) {
			errs.Add(ferrors.SchemaError.New("no such column " + name + " on folder " + f.Name))
		}
	}
	return errs.Err()
}

// baseRowData seeds WHERE/sort row data from the item's own persisted
// columns, then reconstructs the Text aggregate column's content (never
// persisted, per item/store.go's indexAndPersist) by re-joining the
// textual source columns it aggregates, so SEARCH gets exact, un-stemmed
// matching instead of the lossy stemmed postings (the index is used on the
// read path only as matchWhere's SearchItemIDs pre-filter; see DESIGN.md).
func baseRowData(f *folder.Folder, it *item.Item) column.RowData {
	row := column.RowData{}
	for colID, vl := range it.Data {
		row[colID] = vl
	}
	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil || cfg.Type != column.KindText {
			continue
		}
		var parts []string
		for _, srcID := range f.ColumnOrder {
			src := f.Columns[srcID]
			if src == nil {
				continue
			}
			switch src.Type {
			case column.KindSmallText, column.KindLongText, column.KindSelect, column.KindLanguage:
				if vl, ok := it.Data[srcID]; ok {
					parts = append(parts, vl.Strings()...)
				}
			}
		}
		row[colID] = column.NewValueList(strings.Join(parts, " "))
	}
	return row
}

// countRows implements COUNT(*|col|DISTINCT col) over the WHERE-filtered
// survivor set.
func countRows(f *folder.Folder, spec *stmt.CountSpec, survivors []candidate) (int, error) {
	if spec.All || spec.Column == "" {
		return len(survivors), nil
	}
	cfg, ok := f.ColumnByName(spec.Column)
	if !ok {
		return 0, ferrors.SchemaError.New("no such column " + spec.Column + " on folder " + f.Name)
	}
	if !spec.Distinct {
		n := 0
		for _, c := range survivors {
			if len(c.row[cfg.ID]) > 0 {
				n++
			}
		}
		return n, nil
	}
	// DISTINCT dedups by a hashstructure digest rather than the raw string,
	// so a set-valued column's value list collapses on its whole content
	// (order-sensitive, matching Strings()'s join order) through the same
	// hashing convention index/search.go uses for posting-set keys.
	seen := map[uint64]bool{}
	n := 0
	for _, c := range survivors {
		vs := c.row[cfg.ID].Strings()
		if len(vs) == 0 {
			continue
		}
		h, err := hashstructure.Hash(vs, nil)
		if err != nil {
			return 0, ferrors.BackendError.Wrap(err, "hashing distinct value")
		}
		if !seen[h] {
			seen[h] = true
			n++
		}
	}
	return n, nil
}
