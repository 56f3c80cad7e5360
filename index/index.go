// Package index implements the per-item inverted text index: for each
// item, per-column text is tokenized, stopword-filtered, and stemmed with a
// language-specific stemmer from github.com/blevesearch/snowballstem (the
// same stemming library bleve-based retrieval pulls in, per DESIGN.md), then
// recorded as stem -> "<column_id>:<relevance>,..." posting lists, one
// index record per item, keyed by item id and co-located with the item's
// data partition.
//
// Grounded on original_source/src/storage/fields/text.rs and
// src/storage/columns/text.rs: relevance weights are capped to the
// folder's declared 1-5 range (default 1), and non-textual columns are
// skipped during aggregation rather than erroring.
package index

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/french"
	"github.com/blevesearch/snowballstem/spanish"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/kv"
)

// Record is the per-item index record: stem -> joined posting list.
type Record struct {
	Postings map[string]string
}

var tokenRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Stem reduces word to its stem under the given language code (a bare ISO
// code such as "en", "fr", "es"); unrecognized languages fall back to
// English, matching the folder's own "default" language fallback in §4.5
// step 1.
func Stem(language, word string) string {
	env := snowballstem.NewEnv(strings.ToLower(word))
	switch language {
	case "fr":
		french.Stem(env)
	case "es":
		spanish.Stem(env)
	default:
		english.Stem(env)
	}
	return env.Current()
}

// clampRelevance enforces the folder schema's declared 1-5 range, default 1.
func clampRelevance(r int) int {
	if r <= 0 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// BuildPostings implements §4.5 steps 2-4: per column, tokenize, dedupe,
// drop stopwords, stem, and append "<column_id>:<relevance>" to each
// surviving stem's posting list. textByColumn must already be restricted to
// columns that contribute text (SmallText/LongText/Text/Select/Language);
// the item store is responsible for excluding non-textual kinds before
// calling in, per the recovered original_source behavior.
func BuildPostings(language string, textByColumn map[string]string, relevanceByColumn map[string]int) map[string]string {
	stemBuckets := map[string]map[string]bool{} // stem -> set of "colID:relevance"

	columnIDs := make([]string, 0, len(textByColumn))
	for id := range textByColumn {
		columnIDs = append(columnIDs, id)
	}
	sort.Strings(columnIDs) // deterministic posting order

	for _, colID := range columnIDs {
		text := textByColumn[colID]
		relevance := clampRelevance(relevanceByColumn[colID])
		seen := map[string]bool{}
		for _, word := range tokenRE.FindAllString(strings.ToLower(text), -1) {
			if seen[word] || isStopword(language, word) {
				continue
			}
			seen[word] = true
			stem := Stem(language, word)
			if stem == "" {
				continue
			}
			entry := colID + ":" + strconv.Itoa(relevance)
			bucket, ok := stemBuckets[stem]
			if !ok {
				bucket = map[string]bool{}
				stemBuckets[stem] = bucket
			}
			bucket[entry] = true
		}
	}

	out := make(map[string]string, len(stemBuckets))
	for stem, entries := range stemBuckets {
		list := make([]string, 0, len(entries))
		for e := range entries {
			list = append(list, e)
		}
		sort.Strings(list)
		out[stem] = strings.Join(list, ",")
	}
	return out
}

// Write encrypts and persists rec under itemID in the given index tree.
func Write(store *kv.Store, tree string, key codec.Key, itemID string, rec Record) error {
	ciphertext, err := codec.Encode(key, rec)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding index record for "+itemID)
	}
	if err := store.Put(tree, []byte(itemID), ciphertext); err != nil {
		return ferrors.BackendError.Wrap(err, "writing index record for "+itemID)
	}
	return nil
}

// Delete removes itemID's index record, if any, from the given index tree.
func Delete(store *kv.Store, tree string, itemID string) error {
	return store.Delete(tree, []byte(itemID))
}

// Read decrypts the index record for itemID, or ferrors.NotFound if none
// was ever written.
func Read(store *kv.Store, tree string, key codec.Key, itemID string) (Record, error) {
	raw, ok, err := store.Get(tree, []byte(itemID))
	if err != nil {
		return Record{}, ferrors.BackendError.Wrap(err, "reading index record for "+itemID)
	}
	if !ok {
		return Record{}, ferrors.NotFound.New("index record", itemID)
	}
	var rec Record
	if err := codec.Decode(key, raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
