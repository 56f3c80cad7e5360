// Package result implements the §4.8 result serializer: it turns a
// search.Result into the YAML document
// {total, time_ms, page, data_count, data: [{id, name, slug, data: {...}}]}.
//
// Grounded on column/object.go's "the raw text is what gets persisted and
// re-rendered" convention for nested values, and on the teacher's own
// preference for gopkg.in/yaml.v2 elsewhere in this module; this package
// specifically needs gopkg.in/yaml.v3's Node API (already pulled in
// transitively, promoted here to a direct dependency) because §4.8 requires
// forcing double-quoted style on certain column kinds regardless of
// content — a control yaml.v2's plain Marshal has no hook for.
package result

import (
	"gopkg.in/yaml.v3"

	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/search"
)

// quotedKinds is the set of column kinds §4.8 requires emitted
// double-quoted even when the scalar content needs no quoting of its own.
var quotedKinds = map[column.Kind]bool{
	column.KindLongText: true,
	column.KindSelect:   true,
	column.KindText:     true,
	column.KindUrl:      true,
}

// Render builds the full result document for res, produced against folder
// f (used to resolve each rendered column's kind for the quoting rule) and
// the elapsed wall-clock duration of the query, in milliseconds.
func Render(f *folder.Folder, res *search.Result, elapsedMs int64) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	addScalar(doc, "total", res.Total)
	addScalar(doc, "time_ms", elapsedMs)
	if res.Count != nil {
		addScalar(doc, "count", *res.Count)
		return marshal(doc)
	}

	addScalar(doc, "page", res.Page)
	addScalar(doc, "data_count", len(res.Rows))

	dataKey := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "data"}
	dataSeq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range res.Rows {
		dataSeq.Content = append(dataSeq.Content, rowNode(f, row))
	}
	doc.Content = append(doc.Content, dataKey, dataSeq)

	return marshal(doc)
}

func marshal(doc *yaml.Node) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{doc}}
	return yaml.Marshal(root)
}

func rowNode(f *folder.Folder, row search.Row) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	addScalar(n, "id", row.ID)
	addScalar(n, "name", row.Name)
	addScalar(n, "slug", row.Slug)

	dataKey := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "data"}
	dataMap := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil {
			continue
		}
		value, ok := row.Data[cfg.Name]
		if !ok {
			continue
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cfg.Name}
		valueNode := toNode(value, quotedKinds[cfg.Type])
		dataMap.Content = append(dataMap.Content, keyNode, valueNode)
	}
	n.Content = append(n.Content, dataKey, dataMap)
	return n
}

func addScalar(n *yaml.Node, key string, value interface{}) {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	n.Content = append(n.Content, keyNode, toNode(value, false))
}

// toNode encodes an arbitrary rendered column value (string, number, bool,
// nested map/slice from Object, {ID,Name} Link pairs, …) into a yaml.Node,
// forcing double-quoted style on string leaves when quoted is set.
func toNode(value interface{}, quoted bool) *yaml.Node {
	if value == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	n := &yaml.Node{}
	if err := n.Encode(value); err != nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ""}
	}
	applyQuoting(n, quoted)
	return n
}

// applyQuoting recurses into sequence/mapping nodes so a quoted kind's
// set-valued or nested rendering still quotes every string leaf, not just a
// bare top-level scalar.
func applyQuoting(n *yaml.Node, quoted bool) {
	if !quoted {
		return
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			n.Style = yaml.DoubleQuotedStyle
		}
	case yaml.SequenceNode, yaml.MappingNode:
		for _, c := range n.Content {
			applyQuoting(c, quoted)
		}
	}
}
