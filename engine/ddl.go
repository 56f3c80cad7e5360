package engine

import (
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/ids"
	"github.com/foliant-db/foliant/routing"
	"github.com/foliant-db/foliant/stmt"
)

// execCreateFolder maps a compiled CREATE FOLDER statement's column
// declarations into column.Config values and persists the new schema,
// rejecting an unrecognized Type before it reaches any dispatch switch
// (column.Kind.IsValid's closed-set check).
func (e *Engine) execCreateFolder(scope routing.Scope, q *stmt.CreateFolderStmt) error {
	span := e.span("foliant.create_folder")
	defer span.Finish()

	f := &folder.Folder{
		Name:    q.FolderName,
		Scope:   scope,
		Columns: map[string]*column.Config{},
	}

	var errs ferrors.List
	var nameColumnID string
	for _, decl := range q.Columns {
		kind := column.Kind(decl.Type)
		if !kind.IsValid() {
			errs.Add(ferrors.SchemaError.New("unrecognized column type " + decl.Type + " for column " + decl.Name))
			continue
		}
		cfg := &column.Config{
			ID:       ids.New(),
			Name:     decl.Name,
			Type:     kind,
			Required: decl.Required,
		}
		if decl.SetMin != nil && decl.SetMax != nil {
			cfg.IsSet = true
			cfg.SetMin = decl.SetMin
			cfg.SetMax = decl.SetMax
		}
		f.Columns[cfg.ID] = cfg
		f.ColumnOrder = append(f.ColumnOrder, cfg.ID)
		if nameColumnID == "" && (kind == column.KindSmallText || kind == column.KindGenerateId) {
			nameColumnID = cfg.ID
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}
	if nameColumnID == "" && len(f.ColumnOrder) > 0 {
		nameColumnID = f.ColumnOrder[0]
	}
	f.NameColumnID = nameColumnID
	f.Languages = folder.LanguageConfig{Codes: []string{"en"}, Default: "en"}

	return e.Folders.Create(f)
}

// execDropFolder drops the folder's item sub-trees (item.Store.Drop) before
// deleting the schema record itself, so a crash mid-drop never leaves
// items orphaned under a vanished schema.
func (e *Engine) execDropFolder(scope routing.Scope, q *stmt.DropFolderStmt) error {
	span := e.span("foliant.drop_folder")
	defer span.Finish()

	f, err := e.Folders.GetByName(scope, q.FolderName)
	if err != nil {
		return err
	}
	if err := e.Items.Drop(f); err != nil {
		return err
	}
	return e.Folders.Delete(scope, f.ID)
}
