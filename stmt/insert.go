package stmt

import (
	"regexp"
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

var insertHeaderRE = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+FOLDER\s+"?([A-Za-z0-9_\- ]+?)"?\s*(\(.*\))\s*;?\s*$`)
var subFolderRE = regexp.MustCompile(`(?is)^\s*SUB\s+FOLDER\s+([A-Za-z0-9_\-]+)(?:\s+WITH\s+IsReference\s*=\s*(true|false))?\s*$`)
var kvFieldRE = regexp.MustCompile(`(?is)^\s*([A-Za-z0-9_\- ]+?)\s*=\s*(.*)$`)

// parseInsert recognizes "INSERT INTO FOLDER <Name> (item), (item), …;"
// where each item is a parenthesized list of Key = Value pairs plus optional
// SUB FOLDER clauses (spec §4.6 / §6 grammar). A single outer pair of parens
// wrapping all the items, "((item), (item));", is accepted as well.
func parseInsert(text string, literals []string) (*InsertStmt, error) {
	m := insertHeaderRE.FindStringSubmatch(text)
	if m == nil {
		return nil, ferrors.SyntaxError.New("malformed INSERT INTO FOLDER statement")
	}

	stmt := &InsertStmt{FolderName: strings.TrimSpace(m[1])}
	groups := parenGroups(m[2])
	if len(groups) == 1 && strings.HasPrefix(strings.TrimSpace(groups[0]), "(") {
		groups = parenGroups(groups[0])
	}
	for _, itemBody := range groups {
		row, err := parseInsertItem(itemBody, literals)
		if err != nil {
			return nil, err
		}
		stmt.Rows = append(stmt.Rows, row)
	}
	if len(stmt.Rows) == 0 {
		return nil, ferrors.SyntaxError.New("INSERT statement declares no items")
	}
	return stmt, nil
}

func parseInsertItem(itemBody string, literals []string) (InsertRow, error) {
	row := InsertRow{Data: map[string][]string{}}
	for _, field := range splitTopLevel(itemBody, ',') {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if sm := subFolderRE.FindStringSubmatch(field); sm != nil {
			row.SubFolders = append(row.SubFolders, SubFolderRef{
				ID:          sm[1],
				IsReference: strings.EqualFold(sm[2], "true"),
			})
			continue
		}
		kv := kvFieldRE.FindStringSubmatch(field)
		if kv == nil {
			return InsertRow{}, ferrors.SyntaxError.New("malformed item field: " + field)
		}
		key := strings.TrimSpace(kv[1])
		value := resolveValue(kv[2], literals)
		row.Data[key] = append(row.Data[key], value)
	}
	return row, nil
}
