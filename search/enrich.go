package search

import (
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/item"
)

// enrichLinks implements §4.7 step 1: for every LINK column (and every
// REFERENCE column, which resolves through one), fetch the target item's
// name, and for REFERENCE the remote column's own value, caching fetched
// items per target folder so a row linking to the same item twice only
// decrypts it once.
func (p *Pipeline) enrichLinks(f *folder.Folder, it *item.Item, row column.RowData, rctx *column.RenderContext,
	nameCache map[string]map[string]string, itemCache map[string]map[string]*item.Item) error {

	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil {
			continue
		}
		switch cfg.Type {
		case column.KindLink:
			for _, v := range row[colID] {
				id := v.Value()
				if id == "" {
					continue
				}
				name, err := p.lookupLinkName(f, cfg.LinkedFolder, id, nameCache, itemCache)
				if err != nil {
					if ferrors.NotFound.Is(err) {
						continue
					}
					return err
				}
				rctx.LinkNames[id] = name
			}
		case column.KindReference:
			linkCfg, ok := f.ColumnByName(cfg.LinkColumn)
			if !ok || linkCfg.Type != column.KindLink {
				continue
			}
			vl := row[linkCfg.ID]
			if len(vl) == 0 || vl[0].Value() == "" {
				continue
			}
			targetID := vl[0].Value()
			target, err := p.Folders.Get(f.Scope, linkCfg.LinkedFolder)
			if err != nil {
				return err
			}
			remoteCfg, ok := target.ColumnByName(cfg.RemoteColumn)
			if !ok {
				return ferrors.SchemaError.New("no such column " + cfg.RemoteColumn + " on folder " + target.Name)
			}
			targetItem, err := p.cachedItem(target, targetID, itemCache)
			if err != nil {
				if ferrors.NotFound.Is(err) {
					continue
				}
				return err
			}
			rctx.ReferenceValues[cfg.ID] = joinValues(targetItem.Data[remoteCfg.ID])
		}
	}
	return nil
}

func (p *Pipeline) lookupLinkName(f *folder.Folder, linkedFolder, itemID string,
	nameCache map[string]map[string]string, itemCache map[string]map[string]*item.Item) (string, error) {

	if names, ok := nameCache[linkedFolder]; ok {
		if name, ok := names[itemID]; ok {
			return name, nil
		}
	}
	target, err := p.Folders.Get(f.Scope, linkedFolder)
	if err != nil {
		return "", err
	}
	targetItem, err := p.cachedItem(target, itemID, itemCache)
	if err != nil {
		return "", err
	}
	if nameCache[linkedFolder] == nil {
		nameCache[linkedFolder] = map[string]string{}
	}
	nameCache[linkedFolder][itemID] = targetItem.Name
	return targetItem.Name, nil
}

func (p *Pipeline) cachedItem(target *folder.Folder, itemID string, itemCache map[string]map[string]*item.Item) (*item.Item, error) {
	if items, ok := itemCache[target.ID]; ok {
		if it, ok := items[itemID]; ok {
			return it, nil
		}
	}
	it, err := p.Items.GetByID(target, itemID, nil)
	if err != nil {
		return nil, err
	}
	if itemCache[target.ID] == nil {
		itemCache[target.ID] = map[string]*item.Item{}
	}
	itemCache[target.ID][itemID] = it
	return it, nil
}

// enrichStats implements §4.7 step 2: recompute every STATS column fresh
// against the row's current link targets, the same reduction
// column.ReduceStats applies at write time, so a query always sees the
// post-filter, up-to-date aggregate rather than whatever was cached at
// insert/update time.
func (p *Pipeline) enrichStats(f *folder.Folder, row column.RowData) error {
	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil || cfg.Type != column.KindStats {
			continue
		}
		linkCfg, ok := f.ColumnByName(cfg.LinkColumn)
		if !ok || linkCfg.Type != column.KindLink {
			continue
		}
		target, err := p.Folders.Get(f.Scope, linkCfg.LinkedFolder)
		if err != nil {
			return err
		}
		relatedCfg, ok := target.ColumnByName(cfg.RelatedColumn)
		if !ok {
			return ferrors.SchemaError.New("no such column " + cfg.RelatedColumn + " on folder " + target.Name)
		}
		var values []string
		for _, v := range row[linkCfg.ID] {
			targetID := v.Value()
			if targetID == "" {
				continue
			}
			targetItem, err := p.Items.GetByID(target, targetID, nil)
			if err != nil {
				if ferrors.NotFound.Is(err) {
					continue
				}
				return err
			}
			values = append(values, joinValues(targetItem.Data[relatedCfg.ID]))
		}
		result, err := column.ReduceStats(cfg.StatsFunction, values)
		if err != nil {
			return err
		}
		row[colID] = column.NewValueList(result)
	}
	return nil
}

func joinValues(vl column.ValueList) string {
	out := ""
	for i, v := range vl {
		if i > 0 {
			out += " "
		}
		out += v.Value()
	}
	return out
}
