package stmt

import (
	"regexp"
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

var updateHeaderRE = regexp.MustCompile(`(?is)^UPDATE\s+FOLDER\s+"?([A-Za-z0-9_\- ]+?)"?\s+SET\s*\((.*?)\)\s*(?:WHERE\s+(.+?))?\s*;?\s*$`)

// parseUpdate recognizes "UPDATE FOLDER <name> SET (Key=Value, …) WHERE
// …;", recovered from original_source/src/statements/folder/data.rs per
// SPEC_FULL.md §4.6.
func parseUpdate(text string, literals []string) (*UpdateStmt, error) {
	m := updateHeaderRE.FindStringSubmatch(text)
	if m == nil {
		return nil, ferrors.SyntaxError.New("malformed UPDATE FOLDER statement")
	}

	stmt := &UpdateStmt{
		FolderName: strings.TrimSpace(m[1]),
		Set:        map[string][]string{},
	}
	for _, field := range splitTopLevel(m[2], ',') {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		kv := kvFieldRE.FindStringSubmatch(field)
		if kv == nil {
			return nil, ferrors.SyntaxError.New("malformed SET field: " + field)
		}
		key := strings.TrimSpace(kv[1])
		value := resolveValue(kv[2], literals)
		stmt.Set[key] = append(stmt.Set[key], value)
	}
	if len(stmt.Set) == 0 {
		return nil, ferrors.SyntaxError.New("UPDATE statement declares no SET fields")
	}
	if m[3] != "" {
		stmt.Where = resolveValue(m[3], literals)
	}
	return stmt, nil
}
