// Grounded on the teacher's own direct dependency on github.com/pilosa/pilosa
// (via its roaring posting-set implementation): when a SEARCH clause has
// more than one word, the per-word item-id sets are intersected as roaring
// bitmaps rather than with a plain Go map, matching the
// posting-set-intersection idiom pilosa itself uses. Item ids are hashed to
// bitmap positions with the teacher's own github.com/mitchellh/hashstructure
// dependency, since roaring positions are uint64s and item ids are ULID
// strings.
package index

import (
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure"
	"github.com/pilosa/pilosa/roaring"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/kv"
)

// MatchingItems scans every index record in tree and returns, for every
// item whose postings contain the stem of term under language, its best
// (maximum) relevance weight across the columns that carried the stem —
// the per-column "<col>:<relevance>" weights relevanceOf parses back out.
func MatchingItems(store *kv.Store, tree string, key codec.Key, term, language string) (map[string]int, error) {
	stem := Stem(language, term)
	matches := map[string]int{}
	err := store.Iterate(tree, func(k, raw []byte) error {
		var rec Record
		if err := codec.Decode(key, raw, &rec); err != nil {
			return err
		}
		posting, ok := rec.Postings[stem]
		if !ok {
			return nil
		}
		best := 0
		for _, entry := range strings.Split(posting, ",") {
			_, relevance := relevanceOf(entry)
			if relevance > best {
				best = relevance
			}
		}
		matches[string(k)] = best
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// IntersectTermsRelevance returns the item ids present in every termSet,
// using a roaring bitmap per term-set keyed by a stable hash of each item
// id so the intersection itself runs as a bitmap AND rather than a map
// walk, plus each surviving id's relevance summed across term sets for
// SEARCH result ranking.
func IntersectTermsRelevance(termSets []map[string]int) ([]string, map[string]int) {
	if len(termSets) == 0 {
		return nil, nil
	}
	idByHash := map[uint64]string{}
	bitmaps := make([]*roaring.Bitmap, len(termSets))
	for i, matches := range termSets {
		bm := roaring.NewBitmap()
		for id := range matches {
			h := hashID(id)
			idByHash[h] = id
			if _, err := bm.Add(h); err != nil {
				continue
			}
		}
		bitmaps[i] = bm
	}

	result := bitmaps[0]
	for _, bm := range bitmaps[1:] {
		result = result.Intersect(bm)
	}

	out := make([]string, 0, int(result.Count()))
	relevance := make(map[string]int, int(result.Count()))
	itr := result.Iterator()
	for {
		v, eof := itr.Next()
		if eof {
			break
		}
		id, ok := idByHash[v]
		if !ok {
			continue
		}
		out = append(out, id)
		sum := 0
		for _, matches := range termSets {
			sum += matches[id]
		}
		relevance[id] = sum
	}
	return out, relevance
}

// hashID derives a stable uint64 bitmap key for an item id via
// mitchellh/hashstructure, the teacher's own direct dependency, reused here
// instead of a bespoke FNV hash.
func hashID(id string) uint64 {
	h, err := hashstructure.Hash(id, nil)
	if err != nil {
		// deterministic fallback, never reached in practice since Hash only
		// fails on unsupported types and string is always supported.
		var sum uint64
		for _, b := range []byte(id) {
			sum = sum*31 + uint64(b)
		}
		return sum
	}
	return h
}

// relevanceOf parses the "colID:relevance" posting entry back into its
// parts, used by the search pipeline to weight matches by column relevance.
func relevanceOf(entry string) (colID string, relevance int) {
	parts := strings.SplitN(entry, ":", 2)
	if len(parts) != 2 {
		return entry, 1
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		n = 1
	}
	return parts[0], n
}
