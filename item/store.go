package item

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/folder"
	"github.com/foliant-db/foliant/identity"
	"github.com/foliant-db/foliant/ids"
	"github.com/foliant-db/foliant/index"
	"github.com/foliant-db/foliant/kv"
)

// Store is TreeFolderItem: the per-folder partitioned item store.
type Store struct {
	kv       *kv.Store
	key      codec.Key
	folders  *folder.Store
	identity identity.Identity
	audit    identity.AuditMethod
	log      *logrus.Logger

	// Now is overridable for deterministic tests; defaults to time.Now.
	Now func() time.Time
	// DetectLanguage is the out-of-scope pure-function collaborator (spec
	// §1): given aggregated row text, return an ISO language code.
	DetectLanguage func(text string) string
	// Formula binds the formula evaluator used by Formula columns.
	Formula column.FormulaEvaluator
}

// NewStore builds a Store over an already-open KV handle, sharing the same
// record key and folder schema store as the rest of the Engine.
func NewStore(store *kv.Store, key codec.Key, folders *folder.Store, id identity.Identity, audit identity.AuditMethod, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if audit == nil {
		audit = identity.NoopAudit{}
	}
	return &Store{
		kv:       store,
		key:      key,
		folders:  folders,
		identity: id,
		audit:    audit,
		log:      log,
		Now:      time.Now,
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Insert validates inputs (column name -> raw literal values) against f's
// schema, computes every derived column, persists the item in its assigned
// partition, indexes its text, and maintains LINK back-references.
func (s *Store) Insert(f *folder.Folder, inputs map[string][]string) (*Item, error) {
	data, err := s.buildData(f, inputs, nil)
	if err != nil {
		return nil, err
	}

	name, err := s.extractName(f, data)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetByName(f, name, nil); err == nil {
		return nil, ferrors.DuplicateName.New(name, f.Name)
	} else if !ferrors.NotFound.Is(err) {
		return nil, err
	}

	itemID := ids.New()
	partition, err := assignPartition(s.kv, f.Scope.Key(), f.ID, itemID)
	if err != nil {
		return nil, err
	}

	it := &Item{ID: itemID, Name: name, Slug: slugOf(name), FolderID: f.ID, Scope: f.Scope, Data: data}
	if err := s.indexAndPersist(f, partition, it); err != nil {
		return nil, err
	}
	s.mirrorLinks(f, it)
	s.audit.Write(f.Name, "insert", it.ID, nil)
	return it, nil
}

// Update re-validates the provided columns against the existing item's
// partition (routing is stable across updates per §4.4) and rewrites the
// record and its index entry. Columns not provided keep their stored
// values, except LastModifiedTime/LastModifiedBy, which are restamped, and
// the row-data-dependent kinds, which are recomputed.
func (s *Store) Update(f *folder.Folder, itemID string, inputs map[string][]string) (*Item, error) {
	partition, err := lookupPartition(s.kv, f.Scope.Key(), f.ID, itemID)
	if err != nil {
		s.audit.Write(f.Name, "update", itemID, err)
		return nil, err
	}
	existing, err := s.readPartitionItem(f.Scope.Key(), f.ID, partition, itemID)
	if err != nil {
		s.audit.Write(f.Name, "update", itemID, err)
		return nil, err
	}

	merged, err := s.buildData(f, inputs, existing.Data)
	if err != nil {
		return nil, err
	}
	for colID, vl := range merged {
		existing.Data[colID] = vl
	}

	if err := s.indexAndPersist(f, partition, existing); err != nil {
		s.audit.Write(f.Name, "update", itemID, err)
		return nil, err
	}
	s.mirrorLinks(f, existing)
	s.audit.Write(f.Name, "update", itemID, nil)
	return existing, nil
}

// GetByID performs a direct partition lookup, then projects columns if a
// non-empty selection list is given.
func (s *Store) GetByID(f *folder.Folder, itemID string, columns []string) (*Item, error) {
	partition, err := lookupPartition(s.kv, f.Scope.Key(), f.ID, itemID)
	if err != nil {
		return nil, err
	}
	it, err := s.readPartitionItem(f.Scope.Key(), f.ID, partition, itemID)
	if err != nil {
		return nil, err
	}
	project(f, it, columns)
	return it, nil
}

// GetByName fans out one worker per populated partition (§5's "only
// deliberate parallelism"); the first worker to find a name match wins, all
// workers are joined before return.
func (s *Store) GetByName(f *folder.Folder, name string, columns []string) (*Item, error) {
	n, err := populatedPartitions(s.kv, f.Scope.Key(), f.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ferrors.NotFound.New("item", name)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		found  *Item
		ferr   error
	)
	for p := 1; p <= n; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.kv.Iterate(dataTree(f.Scope.Key(), f.ID, p), func(_ []byte, raw []byte) error {
				var it Item
				if err := codec.Decode(s.key, raw, &it); err != nil {
					return err
				}
				if it.Name == name {
					mu.Lock()
					if found == nil {
						found = &it
					}
					mu.Unlock()
				}
				return nil
			})
			if err != nil {
				mu.Lock()
				if ferr == nil {
					ferr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if ferr != nil {
		return nil, ferr
	}
	if found == nil {
		return nil, ferrors.NotFound.New("item", name)
	}
	project(f, found, columns)
	return found, nil
}

// All performs the full-folder scan the search pipeline iterates over
// (§4.7 "Open every populated partition; decrypt each item"): every item in
// every populated partition, in no particular order. Unlike GetByID/
// GetByName this never projects columns; the caller (search) decides what
// survives WHERE and SELECT.
func (s *Store) All(f *folder.Folder) ([]*Item, error) {
	n, err := populatedPartitions(s.kv, f.Scope.Key(), f.ID)
	if err != nil {
		return nil, err
	}
	var out []*Item
	for p := 1; p <= n; p++ {
		err := s.kv.Iterate(dataTree(f.Scope.Key(), f.ID, p), func(_ []byte, raw []byte) error {
			var it Item
			if err := codec.Decode(s.key, raw, &it); err != nil {
				return err
			}
			out = append(out, &it)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// IndexRecord decrypts and returns the inverted-postings record the write
// path built for it at indexAndPersist time (§4.5). The search pipeline's
// SEARCH matching goes through SearchItemIDs, not this method. NotFound if
// no record was ever written for the item.
func (s *Store) IndexRecord(f *folder.Folder, it *Item) (index.Record, error) {
	partition, err := lookupPartition(s.kv, f.Scope.Key(), f.ID, it.ID)
	if err != nil {
		return index.Record{}, err
	}
	return index.Read(s.kv, indexTree(f.Scope.Key(), f.ID, partition), s.key, it.ID)
}

// SearchItemIDs implements the index-backed side of SEARCH (§4.7): one word
// at a time, index.MatchingItems collects every item whose postings carry
// that word's stem across all of the folder's populated partitions, along
// with its relevance weight, and index.IntersectTermsRelevance ANDs the
// per-word sets together (summing relevance) so a multi-word search term
// requires every word to match somewhere in the item. The formula-level
// SEARCH(...) call folded into WHERE still does the exact substring check
// against the item's reconstructed text, so this is a cheap index-backed
// pre-filter rather than the sole arbiter. The returned map is item id ->
// combined relevance, for ranking search results.
func (s *Store) SearchItemIDs(f *folder.Folder, term string) (map[string]int, error) {
	words := strings.Fields(term)
	if len(words) == 0 {
		return nil, nil
	}
	n, err := populatedPartitions(s.kv, f.Scope.Key(), f.ID)
	if err != nil {
		return nil, err
	}
	language := f.Languages.Default

	termSets := make([]map[string]int, len(words))
	for i, word := range words {
		merged := map[string]int{}
		for p := 1; p <= n; p++ {
			matches, err := index.MatchingItems(s.kv, indexTree(f.Scope.Key(), f.ID, p), s.key, word, language)
			if err != nil {
				return nil, err
			}
			for id, relevance := range matches {
				if relevance > merged[id] {
					merged[id] = relevance
				}
			}
		}
		termSets[i] = merged
	}
	_, relevance := index.IntersectTermsRelevance(termSets)
	return relevance, nil
}

// Drop tears down every partition's data and index sub-trees, the partition
// assignment tree, and the file blob tree.
func (s *Store) Drop(f *folder.Folder) error {
	n, err := populatedPartitions(s.kv, f.Scope.Key(), f.ID)
	if err != nil {
		return err
	}
	for p := 1; p <= n; p++ {
		if err := s.kv.Drop(dataTree(f.Scope.Key(), f.ID, p)); err != nil {
			return err
		}
		if err := s.kv.Drop(indexTree(f.Scope.Key(), f.ID, p)); err != nil {
			return err
		}
	}
	if err := s.kv.Drop(partitionsTree(f.Scope.Key(), f.ID)); err != nil {
		return err
	}
	return s.kv.Drop(filesTree(f.Scope.Key(), f.ID))
}

// Delete removes an item and cascades to every LINK relationship it
// participates in (spec §4.4: "must cascade to LINK back-references subject
// to delete_on_link_drop"): its own outbound Link values are detached from
// their targets' mirror columns, and every item that links to it is either
// detached (the default) or itself deleted, when the owning Link column was
// declared with delete_on_link_drop.
func (s *Store) Delete(f *folder.Folder, itemID string) error {
	partition, err := lookupPartition(s.kv, f.Scope.Key(), f.ID, itemID)
	if err != nil {
		s.audit.Write(f.Name, "delete", itemID, err)
		return err
	}
	it, err := s.readPartitionItem(f.Scope.Key(), f.ID, partition, itemID)
	if err != nil {
		s.audit.Write(f.Name, "delete", itemID, err)
		return err
	}

	for colID, vl := range it.Data {
		cfg := f.Columns[colID]
		if cfg == nil || cfg.Type != column.KindLink {
			continue
		}
		for _, v := range vl {
			targetID := v.Value()
			if targetID == "" {
				continue
			}
			err := s.removeBackReference(f, cfg, targetID, itemID)
			s.audit.LinkBackReference(f.Name, cfg.LinkedFolder, itemID, err)
		}
	}

	for _, ref := range f.LinkBackRefs {
		for _, v := range it.Data[ref.MirrorColumn] {
			sourceItemID := v.Value()
			if sourceItemID == "" {
				continue
			}
			owner, err := s.folders.Get(f.Scope, ref.FromFolder)
			if err != nil {
				s.log.WithError(err).Warn("resolving link owner during delete cascade")
				continue
			}
			ownerLinkCfg := owner.Columns[ref.FromColumnID]
			if ownerLinkCfg != nil && ownerLinkCfg.DeleteOnLinkDrop {
				if err := s.Delete(owner, sourceItemID); err != nil && !ferrors.NotFound.Is(err) {
					s.log.WithError(err).Warn("cascading delete through link")
				}
				continue
			}
			if err := s.detachLinkValue(owner, ownerLinkCfg, sourceItemID, itemID); err != nil {
				s.log.WithError(err).Warn("detaching link value during delete cascade")
			}
		}
	}

	if err := s.kv.Delete(dataTree(f.Scope.Key(), f.ID, partition), []byte(itemID)); err != nil {
		err = ferrors.BackendError.Wrap(err, "deleting item "+itemID)
		s.audit.Write(f.Name, "delete", itemID, err)
		return err
	}
	if err := index.Delete(s.kv, indexTree(f.Scope.Key(), f.ID, partition), itemID); err != nil {
		s.log.WithError(err).Warn("deleting index record")
	}
	s.audit.Write(f.Name, "delete", itemID, nil)
	return nil
}

// removeBackReference strips selfItemID out of the mirror column remote
// records for linkCfg, the inverse of appendBackReference.
func (s *Store) removeBackReference(owner *folder.Folder, linkCfg *column.Config, targetItemID, selfItemID string) error {
	target, err := s.folders.Get(owner.Scope, linkCfg.LinkedFolder)
	if err != nil {
		return err
	}
	var mirrorColumn string
	for _, ref := range target.LinkBackRefs {
		if ref.FromFolder == owner.ID && ref.FromColumnID == linkCfg.ID {
			mirrorColumn = ref.MirrorColumn
			break
		}
	}
	if mirrorColumn == "" {
		return nil
	}

	partition, err := lookupPartition(s.kv, target.Scope.Key(), target.ID, targetItemID)
	if err != nil {
		if ferrors.NotFound.Is(err) {
			return nil
		}
		return err
	}
	targetItem, err := s.readPartitionItem(target.Scope.Key(), target.ID, partition, targetItemID)
	if err != nil {
		if ferrors.NotFound.Is(err) {
			return nil
		}
		return err
	}
	targetItem.Data[mirrorColumn] = removeValue(targetItem.Data[mirrorColumn], selfItemID)

	ciphertext, err := codec.Encode(s.key, targetItem)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding item "+targetItemID)
	}
	return s.kv.Put(dataTree(target.Scope.Key(), target.ID, partition), []byte(targetItemID), ciphertext)
}

// detachLinkValue removes targetItemID out of ownerItemID's own Link column
// value list, used when an item it links to is deleted without cascading.
func (s *Store) detachLinkValue(owner *folder.Folder, linkCfg *column.Config, ownerItemID, targetItemID string) error {
	if linkCfg == nil {
		return nil
	}
	partition, err := lookupPartition(s.kv, owner.Scope.Key(), owner.ID, ownerItemID)
	if err != nil {
		if ferrors.NotFound.Is(err) {
			return nil
		}
		return err
	}
	ownerItem, err := s.readPartitionItem(owner.Scope.Key(), owner.ID, partition, ownerItemID)
	if err != nil {
		if ferrors.NotFound.Is(err) {
			return nil
		}
		return err
	}
	ownerItem.Data[linkCfg.ID] = removeValue(ownerItem.Data[linkCfg.ID], targetItemID)

	ciphertext, err := codec.Encode(s.key, ownerItem)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding item "+ownerItemID)
	}
	return s.kv.Put(dataTree(owner.Scope.Key(), owner.ID, partition), []byte(ownerItemID), ciphertext)
}

func removeValue(vl column.ValueList, value string) column.ValueList {
	out := make(column.ValueList, 0, len(vl))
	for _, v := range vl {
		if v.Value() != value {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) readPartitionItem(scope, folderID string, partition int, itemID string) (*Item, error) {
	raw, ok, err := s.kv.Get(dataTree(scope, folderID, partition), []byte(itemID))
	if err != nil {
		return nil, ferrors.BackendError.Wrap(err, "reading item "+itemID)
	}
	if !ok {
		return nil, ferrors.NotFound.New("item", itemID)
	}
	var it Item
	if err := codec.Decode(s.key, raw, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// buildData runs column.Validate across every declared column in two
// passes: plain and ambient-computed columns first, then the
// row-data-dependent kinds (Text, Language, Formula, Stats) once the rest
// of the row is available in RowData. When existing is non-nil (an update),
// a first-pass column with no input keeps its existing value instead of
// being validated, apart from the LastModified kinds.
func (s *Store) buildData(f *folder.Folder, inputs map[string][]string, existing map[string]column.ValueList) (map[string]column.ValueList, error) {
	var errs ferrors.List
	for name := range inputs {
		if !f.HasColumn(name) {
			errs.Add(ferrors.SchemaError.New("no such column " + name + " on folder " + f.Name))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	byName := map[string][]string{}
	for name, vals := range inputs {
		cfg, _ := f.ColumnByName(name)
		byName[cfg.ID] = vals
	}

	ctx := &column.ValidateContext{
		Now:         s.now,
		UserID:      s.identity.UserID,
		RowData:     column.RowData{},
		ColumnsByID: f.Columns,
		LinkExists: func(linkedFolder, itemID string) (bool, error) {
			return s.exists(f.Scope, linkedFolder, itemID)
		},
		GenerateID: ids.New,
		AdvanceSequence: func(columnID string) (int64, error) {
			return s.advanceSequence(f, columnID)
		},
		DetectLanguage: s.detectLanguage,
		Formula:        s.Formula,
	}
	ctx.ResolveStatsValues = func(linkColumnName, relatedColumn string) ([]string, error) {
		return s.resolveStatsValues(f, ctx.RowData, linkColumnName, relatedColumn)
	}

	deferred := map[string]bool{
		string(column.KindText): true, string(column.KindLanguage): true,
		string(column.KindFormula): true, string(column.KindStats): true,
	}

	data := map[string]column.ValueList{}
	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil || deferred[string(cfg.Type)] {
			continue
		}
		if _, given := byName[colID]; !given && existing != nil &&
			cfg.Type != column.KindLastModifiedTime && cfg.Type != column.KindLastModifiedBy {
			data[colID] = existing[colID]
			ctx.RowData[colID] = existing[colID]
			continue
		}
		vl, err := column.Validate(cfg, byName[colID], ctx)
		if err != nil {
			errs.Add(err)
			continue
		}
		data[colID] = vl
		ctx.RowData[colID] = vl
	}
	for _, colID := range f.ColumnOrder {
		cfg := f.Columns[colID]
		if cfg == nil || !deferred[string(cfg.Type)] {
			continue
		}
		vl, err := column.Validate(cfg, byName[colID], ctx)
		if err != nil {
			errs.Add(err)
			continue
		}
		data[colID] = vl
		ctx.RowData[colID] = vl
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) extractName(f *folder.Folder, data map[string]column.ValueList) (string, error) {
	if f.NameColumnID == "" {
		return "", ferrors.SchemaError.New("folder " + f.Name + " has no designated name column")
	}
	nameCfg := f.Columns[f.NameColumnID]
	if nameCfg == nil || nameCfg.Type != column.KindSmallText {
		return "", ferrors.SchemaError.New("designated name column must be SmallText")
	}
	vl := data[f.NameColumnID]
	if len(vl) == 0 || vl[0].Value() == "" {
		return "", ferrors.ValidationError.New("Name", "Required: a name value is required")
	}
	return vl[0].Value(), nil
}

// indexAndPersist extracts the text-aggregation column's content from the
// in-memory data (text lives only in the index), writes the index record,
// and persists the item.
func (s *Store) indexAndPersist(f *folder.Folder, partition int, it *Item) error {
	textByColumn := map[string]string{}
	relevanceByColumn := map[string]int{}
	language := f.Languages.Default

	for colID, vl := range it.Data {
		cfg := f.Columns[colID]
		if cfg == nil {
			continue
		}
		switch cfg.Type {
		case column.KindSmallText, column.KindLongText, column.KindText:
			textByColumn[colID] = joinValues(vl)
			relevanceByColumn[colID] = cfg.Relevance
		case column.KindLanguage:
			if len(vl) > 0 && vl[0].Value() != "" {
				language = vl[0].Value()
			}
		}
	}

	rec := index.Record{Postings: index.BuildPostings(language, textByColumn, relevanceByColumn)}
	if err := index.Write(s.kv, indexTree(f.Scope.Key(), f.ID, partition), s.key, it.ID, rec); err != nil {
		return err
	}

	persisted := &Item{ID: it.ID, Slug: it.Slug, Name: it.Name, FolderID: it.FolderID, Scope: it.Scope, SubFolders: it.SubFolders, Data: map[string]column.ValueList{}}
	for colID, vl := range it.Data {
		if cfg := f.Columns[colID]; cfg != nil && cfg.Type == column.KindText {
			continue // text lives only in the index, never the item record
		}
		persisted.Data[colID] = vl
	}

	ciphertext, err := codec.Encode(s.key, persisted)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding item "+it.ID)
	}
	if err := s.kv.Put(dataTree(f.Scope.Key(), f.ID, partition), []byte(it.ID), ciphertext); err != nil {
		return ferrors.BackendError.Wrap(err, "writing item "+it.ID)
	}
	*it = *persisted
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

func (s *Store) detectLanguage(text string) string {
	if s.DetectLanguage != nil {
		return s.DetectLanguage(text)
	}
	return ""
}

func (s *Store) exists(scope interface{ Key() string }, folderID, itemID string) (bool, error) {
	_, err := lookupPartition(s.kv, scope.Key(), folderID, itemID)
	if err != nil {
		if ferrors.NotFound.Is(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolveStatsValues gathers relatedColumn's value off every item currently
// reached through linkColumnName's target list in row, reading each target
// item out of its own folder's partitions. A target that no longer exists is
// skipped rather than failing the whole aggregation, matching the
// best-effort discipline §5 applies to other LINK-derived lookups.
func (s *Store) resolveStatsValues(f *folder.Folder, row column.RowData, linkColumnName, relatedColumn string) ([]string, error) {
	linkCfg, ok := f.ColumnByName(linkColumnName)
	if !ok || linkCfg.Type != column.KindLink {
		return nil, ferrors.SchemaError.New("no such link column " + linkColumnName + " on folder " + f.Name)
	}
	target, err := s.folders.Get(f.Scope, linkCfg.LinkedFolder)
	if err != nil {
		return nil, err
	}
	relatedCfg, ok := target.ColumnByName(relatedColumn)
	if !ok {
		return nil, ferrors.SchemaError.New("no such column " + relatedColumn + " on folder " + target.Name)
	}

	var out []string
	for _, v := range row[linkCfg.ID] {
		targetID := v.Value()
		if targetID == "" {
			continue
		}
		partition, err := lookupPartition(s.kv, target.Scope.Key(), target.ID, targetID)
		if err != nil {
			if ferrors.NotFound.Is(err) {
				continue
			}
			return nil, err
		}
		targetItem, err := s.readPartitionItem(target.Scope.Key(), target.ID, partition, targetID)
		if err != nil {
			if ferrors.NotFound.Is(err) {
				continue
			}
			return nil, err
		}
		out = append(out, joinValues(targetItem.Data[relatedCfg.ID]))
	}
	return out, nil
}

func (s *Store) advanceSequence(f *folder.Folder, columnID string) (int64, error) {
	cfg := f.Columns[columnID]
	if cfg == nil {
		return 0, ferrors.SchemaError.New("no such column " + columnID)
	}
	cfg.Sequence++
	if err := s.folders.Update(f); err != nil {
		return 0, err
	}
	return cfg.Sequence, nil
}

// mirrorLinks appends it's id to every LINK target's mirror column,
// tolerating failures as best-effort per §5/§7: a failure leaves a dangling
// inbound link, logged but not reversed, and never fails the primary
// operation.
func (s *Store) mirrorLinks(f *folder.Folder, it *Item) {
	for colID, vl := range it.Data {
		cfg := f.Columns[colID]
		if cfg == nil || cfg.Type != column.KindLink {
			continue
		}
		for _, v := range vl {
			targetID := v.Value()
			if targetID == "" {
				continue
			}
			err := s.appendBackReference(f, cfg, targetID, it.ID)
			s.audit.LinkBackReference(f.Name, cfg.LinkedFolder, it.ID, err)
		}
	}
}

func (s *Store) appendBackReference(owner *folder.Folder, linkCfg *column.Config, targetItemID, selfItemID string) error {
	target, err := s.folders.Get(owner.Scope, linkCfg.LinkedFolder)
	if err != nil {
		return err
	}
	var mirrorColumn string
	for _, ref := range target.LinkBackRefs {
		if ref.FromFolder == owner.ID && ref.FromColumnID == linkCfg.ID {
			mirrorColumn = ref.MirrorColumn
			break
		}
	}
	if mirrorColumn == "" {
		return ferrors.SchemaError.New("no mirror column registered for link " + linkCfg.Name)
	}

	partition, err := lookupPartition(s.kv, target.Scope.Key(), target.ID, targetItemID)
	if err != nil {
		return err
	}
	targetItem, err := s.readPartitionItem(target.Scope.Key(), target.ID, partition, targetItemID)
	if err != nil {
		return err
	}
	targetItem.Data[mirrorColumn] = append(targetItem.Data[mirrorColumn], column.Entry{"VALUE": selfItemID})

	ciphertext, err := codec.Encode(s.key, targetItem)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding item "+targetItemID)
	}
	return s.kv.Put(dataTree(target.Scope.Key(), target.ID, partition), []byte(targetItemID), ciphertext)
}

// project drops data entries not named in columns (case-insensitive match
// against the folder's column names), per §4.4's column-projection rule. An
// empty or nil columns list leaves the item untouched.
func project(f *folder.Folder, it *Item, columns []string) {
	if len(columns) == 0 {
		return
	}
	keep := map[string]bool{}
	for _, name := range columns {
		if cfg, ok := f.ColumnByName(name); ok {
			keep[cfg.ID] = true
		}
	}
	for colID := range it.Data {
		if !keep[colID] {
			delete(it.Data, colID)
		}
	}
}

func slugOf(name string) string {
	return folder.Slugify(name)
}
