package search

import (
	"strconv"

	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/stmt"
)

// maxSortSlots is the sort tuple's fixed width (§4.7 step 4: "a 10-slot
// array of pairs").
const maxSortSlots = 10

// numericScale is the fixed-point scale numeric sort keys are multiplied by
// before truncation to an integer, per §4.7 step 4.
const numericScale = 1000

// stringCap is the byte cap a string sort key is truncated to, the rest
// replaced by an ellipsis, per §4.7 step 4.
const stringCap = 100

var numericSortKinds = map[column.Kind]bool{
	column.KindDuration:       true,
	column.KindNumber:         true,
	column.KindCurrency:       true,
	column.KindPercentage:     true,
	column.KindRating:         true,
	column.KindGenerateNumber: true,
	column.KindCheckbox:       true,
}

// sortSlot is one entry of a sort tuple: exactly one of numeric/isNumeric
// or str is meaningful.
type sortSlot struct {
	isNumeric bool
	numeric   int64
	str       string
	desc      bool
}

// sortTuple is the fixed-width comparison key built for one candidate row.
type sortTuple struct {
	slots [maxSortSlots]sortSlot
	used  int
}

// buildSortTuple implements §4.7 step 4 for one candidate, against the
// query's SORT BY list (capped at the tuple's 10 slots). When the query has
// no explicit SORT BY but did run a SEARCH, slot 0 instead ranks by the
// item's combined relevance weight (descending), so free-text search
// results default to best-match-first rather than an arbitrary item order.
func buildSortTuple(f *folder.Folder, sortBy []stmt.SortItem, c candidate, relevance map[string]int) sortTuple {
	var t sortTuple
	start := 0
	if len(sortBy) == 0 && relevance != nil {
		t.slots[0] = sortSlot{isNumeric: true, numeric: int64(relevance[c.it.ID]), desc: true}
		t.used = 1
		start = 1
	}
	for i, s := range sortBy {
		slot := i + start
		if slot >= maxSortSlots {
			break
		}
		cfg, ok := f.ColumnByName(s.Column)
		if !ok {
			continue
		}
		vl := c.row[cfg.ID]
		t.slots[slot] = buildSlot(cfg, vl, s.Desc)
		t.used = slot + 1
	}
	return t
}

func buildSlot(cfg *column.Config, vl column.ValueList, desc bool) sortSlot {
	value := ""
	if len(vl) > 0 {
		value = vl[0].Value()
	}
	if numericSortKinds[cfg.Type] {
		var f float64
		if cfg.Type == column.KindCheckbox {
			if value == "true" {
				f = 1
			}
		} else {
			f, _ = strconv.ParseFloat(value, 64)
		}
		return sortSlot{isNumeric: true, numeric: int64(f * numericScale), desc: desc}
	}
	if len(value) > stringCap {
		value = value[:stringCap-1] + "…"
	}
	return sortSlot{str: value, desc: desc}
}

// compare lexicographically compares two tuples slot by slot, each slot
// respecting its own direction; callers break remaining ties by item id.
func (t sortTuple) compare(other sortTuple) int {
	n := t.used
	if other.used > n {
		n = other.used
	}
	for i := 0; i < n && i < maxSortSlots; i++ {
		a, b := t.slots[i], other.slots[i]
		var cmp int
		if a.isNumeric || b.isNumeric {
			switch {
			case a.numeric < b.numeric:
				cmp = -1
			case a.numeric > b.numeric:
				cmp = 1
			}
		} else {
			switch {
			case a.str < b.str:
				cmp = -1
			case a.str > b.str:
				cmp = 1
			}
		}
		if cmp != 0 {
			if a.desc {
				return -cmp
			}
			return cmp
		}
	}
	return 0
}
