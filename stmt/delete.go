package stmt

import (
	"regexp"
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

var deleteHeaderRE = regexp.MustCompile(`(?is)^DELETE\s+FROM\s+FOLDER\s+"?([A-Za-z0-9_\- ]+?)"?\s*(?:WHERE\s+(.+?))?\s*;?\s*$`)

// parseDelete recognizes "DELETE FROM FOLDER <name> WHERE …;", recovered
// from original_source/src/statements/folder/data.rs per SPEC_FULL.md §4.6.
func parseDelete(text string, literals []string) (*DeleteStmt, error) {
	m := deleteHeaderRE.FindStringSubmatch(text)
	if m == nil {
		return nil, ferrors.SyntaxError.New("malformed DELETE FROM FOLDER statement")
	}
	stmt := &DeleteStmt{FolderName: strings.TrimSpace(m[1])}
	if m[2] != "" {
		stmt.Where = resolveValue(m[2], literals)
	}
	return stmt, nil
}
