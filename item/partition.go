package item

import (
	"fmt"
	"strconv"

	"github.com/boltdb/bolt"

	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/kv"
)

func partitionsTree(scope, folderID string) string {
	return scope + "/folders/" + folderID + "/partitions"
}

func dataTree(scope, folderID string, partition int) string {
	return scope + "/folders/" + folderID + "/" + fmt.Sprintf("%04d.db", partition)
}

func indexTree(scope, folderID string, partition int) string {
	return scope + "/folders/" + folderID + "/" + fmt.Sprintf("%04d.index", partition)
}

func filesTree(scope, folderID string) string {
	return scope + "/folders/" + folderID + "/files.db"
}

// assignPartition implements §4.4's partition routing: if itemID already
// has a recorded assignment, return it; otherwise assign
// floor(size/1000)+1 and record it atomically.
func assignPartition(store *kv.Store, scope, folderID, itemID string) (int, error) {
	tree := partitionsTree(scope, folderID)
	var partition int
	err := store.Update(tree, func(b *bolt.Bucket) error {
		if existing := b.Get([]byte(itemID)); existing != nil {
			n, err := strconv.Atoi(string(existing))
			if err != nil {
				return ferrors.CorruptRecord.New("partition assignment for " + itemID)
			}
			partition = n
			return nil
		}
		size := b.Stats().KeyN
		partition = size/ItemsPerPartition + 1
		if partition > MaxPartitions {
			return ferrors.CapacityExceeded.New("folder " + folderID + " has reached its partition cap")
		}
		return b.Put([]byte(itemID), []byte(strconv.Itoa(partition)))
	})
	if err != nil {
		return 0, err
	}
	return partition, nil
}

// lookupPartition returns the recorded partition for itemID, or NotFound if
// no assignment has ever been written.
func lookupPartition(store *kv.Store, scope, folderID, itemID string) (int, error) {
	raw, ok, err := store.Get(partitionsTree(scope, folderID), []byte(itemID))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ferrors.NotFound.New("item", itemID)
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, ferrors.CorruptRecord.New("partition assignment for " + itemID)
	}
	return n, nil
}

// populatedPartitions returns 1..N where N is the highest partition number
// ever assigned in the folder, used to enumerate every partition's
// sub-trees.
func populatedPartitions(store *kv.Store, scope, folderID string) (int, error) {
	n, err := store.Count(partitionsTree(scope, folderID))
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return (n-1)/ItemsPerPartition + 1, nil
}
