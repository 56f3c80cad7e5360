package stmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

var (
	countClauseRE   = regexp.MustCompile(`(?is)\bCOUNT\s*\(\s*(\*|DISTINCT\s+[A-Za-z0-9_\- ]+|[A-Za-z0-9_\- ]+)\s*\)`)
	selectColsRE    = regexp.MustCompile(`(?is)^\s*SELECT\s+(\*|[A-Za-z0-9_\-, ]+?)\s+FROM`)
	fromClauseRE    = regexp.MustCompile(`(?is)\bFROM\s+"([^"]+)"`)
	whereClauseRE   = regexp.MustCompile(`(?is)\bWHERE\s+(.+?)(?:\s+SORT\s+BY|\s+GROUP\s+BY|\s+SEARCH\s+"|\s+PAGE\s+\d|\s+NUMBER\s+ITEMS\s+\d|;|\z)`)
	sortByClauseRE  = regexp.MustCompile(`(?is)\bSORT\s+BY\s*\{([^}]*)\}`)
	groupByClauseRE = regexp.MustCompile(`(?is)\bGROUP\s+BY\s+"([^"]*)"`)
	searchClauseRE  = regexp.MustCompile(`(?is)\bSEARCH\s+"([^"]*)"`)
	pageClauseRE    = regexp.MustCompile(`(?is)\bPAGE\s+(\d+)`)
	numberItemsRE   = regexp.MustCompile(`(?is)\bNUMBER\s+ITEMS\s+(\d+)`)
)

// parseSelect recognizes the SELECT/COUNT statement form: sub-clauses may
// appear in any order after "FROM \"<name>\"" (spec §4.6). Defaults:
// page=1, number_items=20. A SEARCH clause is folded into Where per §4.6's
// AND(SEARCH("Text", "<term>"), <where>) rule.
func parseSelect(text string, literals []string) (*SelectStmt, error) {
	stmt := &SelectStmt{Page: 1, NumberItems: 20}

	switch {
	case countClauseRE.MatchString(text):
		cm := countClauseRE.FindStringSubmatch(text)
		spec := strings.TrimSpace(cm[1])
		cs := &CountSpec{}
		switch {
		case spec == "*":
			cs.All = true
		case strings.HasPrefix(strings.ToUpper(spec), "DISTINCT"):
			cs.Distinct = true
			cs.Column = strings.TrimSpace(spec[len("DISTINCT"):])
		default:
			cs.Column = spec
		}
		stmt.Count = cs
	case selectColsRE.MatchString(text):
		sm := selectColsRE.FindStringSubmatch(text)
		cols := strings.TrimSpace(sm[1])
		if cols == "*" {
			stmt.All = true
		} else {
			for _, c := range strings.Split(cols, ",") {
				stmt.Columns = append(stmt.Columns, strings.TrimSpace(c))
			}
		}
	default:
		return nil, ferrors.SyntaxError.New("SELECT statement missing a SELECT or COUNT clause")
	}

	fm := fromClauseRE.FindStringSubmatch(text)
	if fm == nil {
		return nil, ferrors.SyntaxError.New("SELECT statement missing FROM clause")
	}
	stmt.FolderName = fm[1]

	if wm := whereClauseRE.FindStringSubmatch(text); wm != nil {
		stmt.Where = resolveValue(wm[1], literals)
	}
	if sm := sortByClauseRE.FindStringSubmatch(text); sm != nil {
		for _, item := range strings.Split(sm[1], "|") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			fields := strings.Fields(item)
			si := SortItem{Column: fields[0]}
			if len(fields) > 1 && strings.EqualFold(fields[1], "DESC") {
				si.Desc = true
			}
			stmt.SortBy = append(stmt.SortBy, si)
		}
	}
	if gm := groupByClauseRE.FindStringSubmatch(text); gm != nil {
		for _, c := range strings.Split(gm[1], ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				stmt.GroupBy = append(stmt.GroupBy, c)
			}
		}
	}
	if sm := searchClauseRE.FindStringSubmatch(text); sm != nil {
		stmt.Search = resolveValue(`"`+sm[1]+`"`, literals)
	}
	if pm := pageClauseRE.FindStringSubmatch(text); pm != nil {
		n, err := strconv.Atoi(pm[1])
		if err != nil {
			return nil, ferrors.SyntaxError.New("malformed PAGE clause")
		}
		stmt.Page = n
	}
	if nm := numberItemsRE.FindStringSubmatch(text); nm != nil {
		n, err := strconv.Atoi(nm[1])
		if err != nil {
			return nil, ferrors.SyntaxError.New("malformed NUMBER ITEMS clause")
		}
		stmt.NumberItems = n
	}

	if stmt.Search != "" {
		searchCall := fmt.Sprintf(`SEARCH("Text", "%s")`, escapeFormulaString(stmt.Search))
		if stmt.Where != "" {
			stmt.Where = fmt.Sprintf("AND(%s, %s)", searchCall, stmt.Where)
		} else {
			stmt.Where = searchCall
		}
	}

	return stmt, nil
}
