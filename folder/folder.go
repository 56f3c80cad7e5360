// Package folder implements the folder schema store (TreeFolder): a
// sub-tree of folder records keyed by id, each carrying its ordered column
// list, language settings, link back-references, and per-column relevance.
package folder

import (
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/routing"
)

// LanguageConfig names the folder's supported languages and the default
// used by the text indexer when an item's Language column is unset.
type LanguageConfig struct {
	Codes   []string
	Default string
}

// SubFolderDescriptor names a declared child grouping an item can belong
// to; IsReference marks a non-owning membership (see SUB FOLDER ... WITH
// IsReference in §6's grammar).
type SubFolderDescriptor struct {
	ID          string
	Name        string
	IsReference bool
}

// LinkBackRef is a mirror entry recorded on the target side of a LINK
// column, so reverse traversal never needs a cross-folder scan.
type LinkBackRef struct {
	FromFolder   string // id of the folder declaring the LINK
	FromColumnID string // the LINK column's id on the declaring folder
	MirrorColumn string // id of the column this folder carries the back-refs under
	Many         bool
}

// Folder is the schema record: unique id, display name (unique within its
// routing scope), an ordered column list, and the column configs keyed by
// id.
type Folder struct {
	ID             string
	Name           string
	Slug           string
	Scope          routing.Scope
	Languages      LanguageConfig
	ColumnOrder    []string
	Columns        map[string]*column.Config
	NameColumnID   string
	SubFolders     map[string]SubFolderDescriptor
	LinkBackRefs   []LinkBackRef
}

// ColumnByName returns the column config named name (case-insensitive per
// §4.4's "name-level match is case-insensitive" projection rule), and
// whether it was found.
func (f *Folder) ColumnByName(name string) (*column.Config, bool) {
	for _, id := range f.ColumnOrder {
		cfg := f.Columns[id]
		if cfg != nil && equalFold(cfg.Name, name) {
			return cfg, true
		}
	}
	return nil, false
}

// HasColumn reports whether name names a declared column.
func (f *Folder) HasColumn(name string) bool {
	_, ok := f.ColumnByName(name)
	return ok
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
