// Package item implements the folder item store (TreeFolderItem):
// partitioned item persistence, partition routing, LINK back-reference
// maintenance, and file blob storage.
package item

import (
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/routing"
)

// MaxPartitions is the per-folder partition cap (§3 invariants).
const MaxPartitions = 1000

// ItemsPerPartition is the per-partition item cap.
const ItemsPerPartition = 1000

// MaxItemsPerFolder is the total item cap per folder.
const MaxItemsPerFolder = MaxPartitions * ItemsPerPartition

// Item is the data record: id (time-ordered), slug, designated name, the
// routing scope, optional sub-folder membership, and the column data
// vector.
type Item struct {
	ID         string
	Slug       string
	Name       string
	FolderID   string
	Scope      routing.Scope
	SubFolders []string
	Data       map[string]column.ValueList
}

// FileRecord is the File column kind's backing blob record (§3's "File
// record"): inline bytes when at or below column.MaxFileDB, otherwise an
// on-disk encrypted path.
type FileRecord struct {
	ID          string
	OriginalName string
	Size        int64
	ContentType string
	FileType    string
	Scope       routing.Scope
	Content     []byte // non-empty only when Size <= column.MaxFileDB
	Path        string // non-empty only when Size > column.MaxFileDB
}
