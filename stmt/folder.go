package stmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

var createFolderHeaderRE = regexp.MustCompile(`(?is)^CREATE\s+FOLDER\s+"?([A-Za-z0-9_\- ]+?)"?\s*\((.*)\)\s*;?\s*$`)
var columnDeclRE = regexp.MustCompile(`(?is)^\s*([A-Za-z0-9_\- ]+?)\s+([A-Za-z]+)\s*((?i:Required))?\s*(?:Set\(\s*(\d+)\s*,\s*(\d+)\s*\))?\s*$`)
var dropFolderHeaderRE = regexp.MustCompile(`(?is)^DROP\s+FOLDER\s+"?([A-Za-z0-9_\- ]+?)"?\s*;?\s*$`)

// parseCreateFolder recognizes "CREATE FOLDER <name> (<col> <Type>
// [Required] [Set(min,max)], …);", recovered from
// original_source/src/statements/folder/data.rs per SPEC_FULL.md §4.6
// (spec.md's own grammar sketch only shows "drop" at the statement level
// and never defines a folder-creation statement, though §3's Lifecycle
// section requires one).
func parseCreateFolder(text string) (*CreateFolderStmt, error) {
	m := createFolderHeaderRE.FindStringSubmatch(text)
	if m == nil {
		return nil, ferrors.SyntaxError.New("malformed CREATE FOLDER statement")
	}
	stmt := &CreateFolderStmt{FolderName: strings.TrimSpace(m[1])}
	for _, decl := range splitTopLevel(m[2], ',') {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		cm := columnDeclRE.FindStringSubmatch(decl)
		if cm == nil {
			return nil, ferrors.SyntaxError.New("malformed column declaration: " + decl)
		}
		col := ColumnDecl{
			Name:     strings.TrimSpace(cm[1]),
			Type:     cm[2],
			Required: strings.EqualFold(cm[3], "Required"),
		}
		if cm[4] != "" && cm[5] != "" {
			min, err1 := strconv.Atoi(cm[4])
			max, err2 := strconv.Atoi(cm[5])
			if err1 != nil || err2 != nil {
				return nil, ferrors.SyntaxError.New("malformed Set bounds in: " + decl)
			}
			col.SetMin = &min
			col.SetMax = &max
		}
		stmt.Columns = append(stmt.Columns, col)
	}
	if len(stmt.Columns) == 0 {
		return nil, ferrors.SyntaxError.New("CREATE FOLDER statement declares no columns")
	}
	return stmt, nil
}

// parseDropFolder recognizes "DROP FOLDER <name>;", recovered the same way
// as parseCreateFolder.
func parseDropFolder(text string) (*DropFolderStmt, error) {
	m := dropFolderHeaderRE.FindStringSubmatch(text)
	if m == nil {
		return nil, ferrors.SyntaxError.New("malformed DROP FOLDER statement")
	}
	return &DropFolderStmt{FolderName: strings.TrimSpace(m[1])}, nil
}
