package stmt

import (
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

// Compile recognizes one of the six statement forms and returns its typed
// IR: *InsertStmt, *SelectStmt, *UpdateStmt, *DeleteStmt, *CreateFolderStmt,
// or *DropFolderStmt. Statement text is preprocessed to extract triple-
// quoted literals before any clause-level parsing runs.
func Compile(text string) (interface{}, error) {
	prepped, literals := extractLiterals(text)
	trimmed := strings.TrimSpace(prepped)
	upper := strings.ToUpper(trimmed)

	switch {
	case strings.HasPrefix(upper, "INSERT INTO FOLDER"):
		return parseInsert(trimmed, literals)
	case strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "COUNT"):
		return parseSelect(trimmed, literals)
	case strings.HasPrefix(upper, "UPDATE FOLDER"):
		return parseUpdate(trimmed, literals)
	case strings.HasPrefix(upper, "DELETE FROM FOLDER"):
		return parseDelete(trimmed, literals)
	case strings.HasPrefix(upper, "CREATE FOLDER"):
		return parseCreateFolder(trimmed)
	case strings.HasPrefix(upper, "DROP FOLDER"):
		return parseDropFolder(trimmed)
	default:
		return nil, ferrors.SyntaxError.New("unrecognized statement: " + firstWords(trimmed, 4))
	}
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
