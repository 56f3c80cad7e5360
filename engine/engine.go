// Package engine ties the folder schema store, item store, and search
// pipeline together behind one Execute entry point that takes compiled
// stmt IR and returns the result of running it, the same "one statement in,
// one result out" shape the teacher's own sqle.Engine.Query offers over
// its analyzer/executor pipeline — generalized here to this project's own
// six statement forms instead of SQL.
package engine

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/formula"
	"github.com/foliant-db/foliant/identity"
	"github.com/foliant-db/foliant/item"
	"github.com/foliant-db/foliant/kv"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/search"
	"github.com/foliant-db/foliant/stmt"
)

// Engine binds the schema store, item store, and search pipeline over one
// open KV handle, and is the process-wide entry point for every statement.
type Engine struct {
	Folders *folder.Store
	Items   *item.Store
	Search  *search.Pipeline
	log     *logrus.Logger
}

// Open builds an Engine over an already-open KV store and record key,
// stamping every write with identity (the ambient placeholder user id,
// since authentication is a Non-goal).
func Open(store *kv.Store, key codec.Key, id identity.Identity, audit identity.AuditMethod, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	folders := folder.NewStore(store, key, log)
	items := item.NewStore(store, key, folders, id, audit, log)
	formulaEval := formula.New()
	items.Formula = formulaEval
	return &Engine{
		Folders: folders,
		Items:   items,
		Search:  search.New(folders, items, formulaEval),
		log:     log,
	}
}

// Execute dispatches a compiled statement to the store operation it
// represents, each wrapped in its own opentracing span (ambient
// observability, not the secondary-indexing metrics excluded by the
// spec's Non-goals) so write and read latency are attributable per
// statement kind.
func (e *Engine) Execute(scope routing.Scope, compiled interface{}) (interface{}, error) {
	switch q := compiled.(type) {
	case *stmt.InsertStmt:
		return e.execInsert(scope, q)
	case *stmt.SelectStmt:
		return e.execSelect(scope, q)
	case *stmt.UpdateStmt:
		return e.execUpdate(scope, q)
	case *stmt.DeleteStmt:
		return e.execDelete(scope, q)
	case *stmt.CreateFolderStmt:
		return nil, e.execCreateFolder(scope, q)
	case *stmt.DropFolderStmt:
		return nil, e.execDropFolder(scope, q)
	default:
		return nil, ferrors.SyntaxError.New("unrecognized compiled statement")
	}
}

func (e *Engine) span(name string) opentracing.Span {
	return opentracing.GlobalTracer().StartSpan(name)
}

func (e *Engine) execInsert(scope routing.Scope, q *stmt.InsertStmt) ([]*item.Item, error) {
	span := e.span("foliant.insert")
	defer span.Finish()

	f, err := e.Folders.GetByName(scope, q.FolderName)
	if err != nil {
		return nil, err
	}
	out := make([]*item.Item, 0, len(q.Rows))
	for _, row := range q.Rows {
		it, err := e.Items.Insert(f, row.Data)
		if err != nil {
			return out, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (e *Engine) execSelect(scope routing.Scope, q *stmt.SelectStmt) (*search.Result, error) {
	span := e.span("foliant.select")
	defer span.Finish()
	return e.Search.Execute(scope, q)
}
