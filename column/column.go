// Package column implements the closed set of column kinds: per-kind schema
// config materialization, input validation/normalization, and YAML
// rendering. The kind set is closed and modeled as a tagged variant (Kind)
// with a single dispatch point in dispatch.go, per the spec's polymorphism
// design note — new kinds are added by extending the tag set, not by open
// interfaces.
package column

import "github.com/foliant-db/foliant/ferrors"

// Kind is one of the closed set of column behaviors.
type Kind string

const (
	KindSmallText        Kind = "SmallText"
	KindLongText         Kind = "LongText"
	KindCheckbox         Kind = "Checkbox"
	KindSelect           Kind = "Select"
	KindNumber           Kind = "Number"
	KindDate             Kind = "Date"
	KindDuration         Kind = "Duration"
	KindCreatedTime      Kind = "CreatedTime"
	KindLastModifiedTime Kind = "LastModifiedTime"
	KindCreatedBy        Kind = "CreatedBy"
	KindLastModifiedBy   Kind = "LastModifiedBy"
	KindCurrency         Kind = "Currency"
	KindPercentage       Kind = "Percentage"
	KindFormula          Kind = "Formula"
	KindLink             Kind = "Link"
	KindReference        Kind = "Reference"
	KindLanguage         Kind = "Language"
	KindText             Kind = "Text"
	KindGenerateId       Kind = "GenerateId"
	KindGenerateNumber   Kind = "GenerateNumber"
	KindPhone            Kind = "Phone"
	KindEmail            Kind = "Email"
	KindUrl              Kind = "Url"
	KindRating           Kind = "Rating"
	KindSet              Kind = "Set"
	KindObject           Kind = "Object"
	KindStats            Kind = "Stats"
	KindFile             Kind = "File"
)

// AllKinds lists every member of the closed set, in the order new columns
// of each kind are documented in the spec. Used by schema validation to
// reject an unknown Type before it ever reaches the dispatch switch.
var AllKinds = []Kind{
	KindSmallText, KindLongText, KindCheckbox, KindSelect, KindNumber, KindDate,
	KindDuration, KindCreatedTime, KindLastModifiedTime, KindCreatedBy,
	KindLastModifiedBy, KindCurrency, KindPercentage, KindFormula, KindLink,
	KindReference, KindLanguage, KindText, KindGenerateId, KindGenerateNumber,
	KindPhone, KindEmail, KindUrl, KindRating, KindSet, KindObject, KindStats,
	KindFile,
}

// IsValid reports whether k is a member of the closed kind set.
func (k Kind) IsValid() bool {
	for _, v := range AllKinds {
		if v == k {
			return true
		}
	}
	return false
}

// SelectOption is one configured choice for a Select column.
type SelectOption struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Config is a tagged record describing one column's schema: shared fields
// plus whichever kind-specific fields its Type uses. Unused kind-specific
// fields are left at their zero value.
type Config struct {
	ID       string
	Name     string
	Type     Kind
	Required bool
	IsSet    bool
	SetMin   *int
	SetMax   *int

	// Select
	Options []SelectOption

	// Date
	DateFormat string
	TimeFormat string

	// Number / Currency / Percentage / Rating
	NumberDecimals int
	CurrencySymbol string
	Minimum        *float64
	Maximum        *float64

	// Formula
	FormulaSource string
	FormulaFormat string

	// Link
	LinkedFolder     string
	Many             bool
	DeleteOnLinkDrop bool

	// Reference
	LinkColumn   string
	RemoteColumn string

	// Stats. LinkColumn (shared with Reference, above) names the Link
	// column on this folder whose targets get aggregated; RelatedColumn
	// names the column to pull off each target.
	RelatedColumn string
	StatsFunction string

	// Object
	Mode string

	// GenerateNumber
	Sequence int64

	// Text search relevance (1-5), used by the text indexer, default 1.
	Relevance int
}

// Entry is one value-list element. Every kind, Link included, stores its
// value under the single "VALUE" key (for Link, the target item id); no
// "ID" key is written. The {ID, Name} pairs a Link renders to are built at
// read time only, never persisted.
type Entry map[string]string

// ValueList is the stored form of a column's data for one item: a
// single-element list for non-set columns, N elements for set columns.
type ValueList []Entry

// Value returns entry["VALUE"], the common case for scalar kinds.
func (e Entry) Value() string { return e["VALUE"] }

// NewValueList builds a ValueList of {VALUE: v} entries.
func NewValueList(values ...string) ValueList {
	vl := make(ValueList, len(values))
	for i, v := range values {
		vl[i] = Entry{"VALUE": v}
	}
	return vl
}

// Strings extracts the VALUE field of every entry, in order.
func (vl ValueList) Strings() []string {
	out := make([]string, len(vl))
	for i, e := range vl {
		out[i] = e.Value()
	}
	return out
}

const (
	DateFormatFriendly = "Friendly"
	DateFormatUS        = "US"
	DateFormatEuropean  = "European"
	DateFormatISO       = "ISO"

	TimeFormat12 = "12"
	TimeFormat24 = "24"

	StatsCOUNT    = "COUNT"
	StatsCOUNTA   = "COUNTA"
	StatsCOUNTALL = "COUNTALL"
	StatsMAX      = "MAX"
	StatsMIN      = "MIN"
	StatsAVG      = "AVG"
	StatsSUM      = "SUM"
	StatsAND      = "AND"
	StatsOR       = "OR"
	StatsXOR      = "XOR"

	FormulaFormatText   = "Text"
	FormulaFormatNumber = "Number"
	FormulaFormatCheck  = "Check"
	FormulaFormatDate   = "Date"

	ObjectModeYAML = "yaml"
	ObjectModeJSON = "json"
)

func validationErr(columnName string, reason ferrors.ValidationReason, detail string) error {
	return ferrors.ValidationError.New(columnName, string(reason)+": "+detail)
}
