// A File column stores file record ids; the file bytes themselves live in
// the folder's file blob sub-tree, written separately through the item
// store's PutFile (see spec: "File record ... inline bytes when <=
// threshold, otherwise an on-disk encrypted path"). This package only
// checks that the referenced id is non-empty; MaxFileDB is exported for
// the item store's inline-vs-path cutoff.
package column

import (
	"strings"

	"github.com/foliant-db/foliant/ferrors"
)

// MaxFileDB is the inline-storage threshold in plaintext bytes: a file
// at or below this size is stored inline in its file record, larger
// files are stream-encrypted to an on-disk blob instead.
const MaxFileDB = 1_000_000

func validateFile(cfg *Config, inputs []string) (ValueList, error) {
	out := make(ValueList, 0, len(inputs))
	for _, id := range inputs {
		if strings.TrimSpace(id) == "" {
			return nil, validationErr(cfg.Name, ferrors.ReasonRequired, "file id must not be empty")
		}
		out = append(out, Entry{"VALUE": id})
	}
	return out, nil
}

func renderFile(cfg *Config, values ValueList) (interface{}, error) {
	return renderScalarOrList(cfg, values)
}
