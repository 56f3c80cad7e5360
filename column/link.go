// Grounded on the spec's LINK column semantics: a Link column stores the
// linked item's id and is mirrored by a back-reference column on the
// target folder, maintained by the folder/item layer. Validation here only
// confirms each referenced id actually exists, via the LinkExists callback
// threaded through ValidateContext to avoid importing the folder package.
package column

import "github.com/foliant-db/foliant/ferrors"

func validateLink(cfg *Config, inputs []string, ctx *ValidateContext) (ValueList, error) {
	if ctx == nil || ctx.LinkExists == nil {
		return nil, ferrors.SchemaError.New("no link resolver bound for column " + cfg.Name)
	}
	out := make(ValueList, 0, len(inputs))
	for _, id := range inputs {
		ok, err := ctx.LinkExists(cfg.LinkedFolder, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, validationErr(cfg.Name, ferrors.ReasonLinkTargetMissing, "linked item not found: "+id)
		}
		out = append(out, Entry{"VALUE": id})
	}
	return out, nil
}

// renderLink resolves each linked item id to its display name via the
// RenderContext lookup table built by the caller (folder/item layer), so
// this package never has to query storage itself. Rendered as {ID, Name}
// pairs per spec §5's worked example ('Customer: {ID: <c.id>, Name:
// "<c.name>"}'), one pair for single Links and a list of pairs for many.
func renderLink(cfg *Config, values ValueList, rctx *RenderContext) (interface{}, error) {
	refs := make([]map[string]string, 0, len(values))
	for _, v := range values {
		id := v.Value()
		name := id
		if rctx != nil && rctx.LinkNames != nil {
			if n, ok := rctx.LinkNames[id]; ok {
				name = n
			}
		}
		refs = append(refs, map[string]string{"ID": id, "Name": name})
	}
	if cfg.Many {
		return refs, nil
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return refs[0], nil
}
