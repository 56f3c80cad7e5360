package column

import "time"

// RowData is the full data map of an item being validated: column id to its
// current (possibly not-yet-persisted) value list. Formula and Stats read
// sibling values out of this map.
type RowData map[string]ValueList

// FormulaEvaluator is the binding contract to the external formula
// evaluator (spec §4.9). column.Formula calls through this interface rather
// than importing the formula package directly, so the dependency runs
// formula -> column, not column -> formula. Stats does not use it; it
// reduces its values with ReduceStats.
type FormulaEvaluator interface {
	// Compile compiles source against the folder's column-config map,
	// returning an opaque handle suitable for repeated Eval calls.
	Compile(source string, resultType string, columns map[string]*Config) (CompiledFormula, error)
	// Eval evaluates a compiled formula against a row's data and the
	// folder's column-config map, returning a string-encoded result
	// (numeric formulas emit decimal strings, boolean formulas emit
	// "1"/"0").
	Eval(expr CompiledFormula, data RowData, columns map[string]*Config) (string, error)
}

// CompiledFormula is an opaque compiled expression handle.
type CompiledFormula interface{}

// ValidateContext carries everything a kind's Validate needs beyond its own
// Config and raw inputs: the ambient clock/identity, sibling row data for
// Formula/Stats, and narrow callbacks into the folder/item stores so this
// package never imports them directly (avoiding an import cycle, since
// folder and item both import column for Config).
type ValidateContext struct {
	Now    func() time.Time
	UserID string

	// RowData holds the item's other column values, keyed by column id;
	// used by Formula and Stats.
	RowData RowData
	// ColumnsByID is the full column-config map of the owning folder,
	// keyed by column id; used by Formula to resolve names and by
	// Language to gather the row's text.
	ColumnsByID map[string]*Config

	// LinkExists reports whether itemID exists in the folder named by
	// linkedFolder. Used by Link validation.
	LinkExists func(linkedFolder, itemID string) (bool, error)

	// GenerateID mints a fresh time-ordered id, used by GenerateId.
	GenerateID func() string

	// AdvanceSequence atomically increments and returns the folder-scoped
	// sequence counter for a GenerateNumber column.
	AdvanceSequence func(columnID string) (int64, error)

	// DetectLanguage is the out-of-scope language-identification
	// collaborator, exposed as a pure function per spec §1.
	DetectLanguage func(text string) string

	// Formula is the evaluator binding used by the Formula kind.
	Formula FormulaEvaluator

	// ResolveStatsValues returns the raw string values of relatedColumn on
	// every item reached through linkColumnName's current target(s), used
	// by the Stats kind. Bound by the item store, the only layer able to
	// cross into another folder's partitions.
	ResolveStatsValues func(linkColumnName, relatedColumn string) ([]string, error)
}

// RenderContext carries the data a kind's Render needs beyond its own
// Config and stored values: resolved LINK target names/values, supplied by
// the search pipeline after it has already fetched them (column never
// fetches on its own).
type RenderContext struct {
	// LinkNames maps a target item id (as stored in a Link Entry's "VALUE"
	// field) to its resolved display name.
	LinkNames map[string]string
	// ReferenceValues maps a Reference column's own id to its pulled-through
	// remote column value; Reference columns store nothing of their own, so
	// this is keyed by column id rather than by a stored value.
	ReferenceValues map[string]string
}
