package formula

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foliant-db/foliant/column"
)

func cfgMap(cfgs ...*column.Config) map[string]*column.Config {
	out := map[string]*column.Config{}
	for _, c := range cfgs {
		out[c.ID] = c
	}
	return out
}

func TestEvalArithmeticAndComparison(t *testing.T) {
	age := &column.Config{ID: "c1", Name: "Age"}
	columns := cfgMap(age)
	e := New()

	compiled, err := e.Compile("Age + 1", column.FormulaFormatNumber, columns)
	require.NoError(t, err)

	data := column.RowData{"c1": column.NewValueList("37")}
	result, err := e.Eval(compiled, data, columns)
	require.NoError(t, err)
	require.Equal(t, "38", result)

	compiled2, err := e.Compile("Age >= 30", column.FormulaFormatCheck, columns)
	require.NoError(t, err)
	result2, err := e.Eval(compiled2, data, columns)
	require.NoError(t, err)
	require.Equal(t, "1", result2)
}

func TestEvalAndOr(t *testing.T) {
	age := &column.Config{ID: "c1", Name: "Age"}
	active := &column.Config{ID: "c2", Name: "Active"}
	columns := cfgMap(age, active)
	e := New()

	compiled, err := e.Compile(`AND(Age >= 30, Age <= 50)`, column.FormulaFormatCheck, columns)
	require.NoError(t, err)

	data := column.RowData{"c1": column.NewValueList("40"), "c2": column.NewValueList("true")}
	result, err := e.Eval(compiled, data, columns)
	require.NoError(t, err)
	require.Equal(t, "1", result)

	data["c1"] = column.NewValueList("60")
	result, err = e.Eval(compiled, data, columns)
	require.NoError(t, err)
	require.Equal(t, "0", result)
}

func TestEvalSearch(t *testing.T) {
	text := &column.Config{ID: "c1", Name: "Text"}
	columns := cfgMap(text)
	e := New()

	compiled, err := e.Compile(`SEARCH("Text", "hello")`, column.FormulaFormatCheck, columns)
	require.NoError(t, err)

	data := column.RowData{"c1": column.NewValueList("hello world")}
	result, err := e.Eval(compiled, data, columns)
	require.NoError(t, err)
	require.Equal(t, "1", result)

	data["c1"] = column.NewValueList("goodbye world")
	result, err = e.Eval(compiled, data, columns)
	require.NoError(t, err)
	require.Equal(t, "0", result)
}

func TestCompileRejectsUnknownColumn(t *testing.T) {
	columns := cfgMap(&column.Config{ID: "c1", Name: "Age"})
	e := New()
	_, err := e.Compile("Height + 1", column.FormulaFormatNumber, columns)
	require.Error(t, err)
}

func TestEvalSum(t *testing.T) {
	a := &column.Config{ID: "c1", Name: "A"}
	b := &column.Config{ID: "c2", Name: "B"}
	columns := cfgMap(a, b)
	e := New()

	compiled, err := e.Compile("SUM(A, B, 10)", column.FormulaFormatNumber, columns)
	require.NoError(t, err)

	data := column.RowData{"c1": column.NewValueList("5"), "c2": column.NewValueList("7")}
	result, err := e.Eval(compiled, data, columns)
	require.NoError(t, err)
	require.Equal(t, "22", result)
}
