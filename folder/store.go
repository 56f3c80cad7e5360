package folder

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/ids"
	"github.com/foliant-db/foliant/internal/similartext"
	"github.com/foliant-db/foliant/kv"
	"github.com/foliant-db/foliant/routing"
)

// foldersTree is the sub-tree name for the schema records, per §6's
// "folders.db: schemas (one record per folder)".
const foldersTree = "folders.db"

// Store is TreeFolder: the folder schema store.
type Store struct {
	kv  *kv.Store
	key codec.Key
	log *logrus.Logger
}

// NewStore builds a Store over an already-open KV handle and record key.
func NewStore(store *kv.Store, key codec.Key, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{kv: store, key: key, log: log}
}

func (s *Store) tree(scope routing.Scope) string {
	return scope.Key() + "/" + foldersTree
}

// Create assigns a time-ordered id and slug, fails AlreadyExists if Name
// collides within the routing scope, then encrypt-and-writes the record.
func (s *Store) Create(f *Folder) error {
	if existing, err := s.GetByName(f.Scope, f.Name); err == nil && existing != nil {
		return ferrors.AlreadyExists.New("folder", f.Name)
	} else if err != nil && !ferrors.NotFound.Is(err) {
		return err
	}
	if f.ID == "" {
		f.ID = ids.New()
	}
	f.Slug = Slugify(f.Name)
	return s.write(f)
}

// Update rewrites the record by id; id and Name are not mutated here (the
// caller is expected to preserve them).
func (s *Store) Update(f *Folder) error {
	return s.write(f)
}

func (s *Store) write(f *Folder) error {
	ciphertext, err := codec.Encode(s.key, f)
	if err != nil {
		return ferrors.BackendError.Wrap(err, "encoding folder "+f.ID)
	}
	if err := s.kv.Put(s.tree(f.Scope), []byte(f.ID), ciphertext); err != nil {
		return ferrors.BackendError.Wrap(err, "writing folder "+f.ID)
	}
	return nil
}

// Get performs a routing-scoped lookup by id.
func (s *Store) Get(scope routing.Scope, id string) (*Folder, error) {
	raw, ok, err := s.kv.Get(s.tree(scope), []byte(id))
	if err != nil {
		return nil, ferrors.BackendError.Wrap(err, "reading folder "+id)
	}
	if !ok {
		return nil, ferrors.NotFound.New("folder", id)
	}
	return s.decode(raw)
}

// GetByName performs a routing-scoped lookup by display name; more than one
// match is Ambiguous (should never occur given Create's uniqueness check,
// but is enforced defensively here too).
func (s *Store) GetByName(scope routing.Scope, name string) (*Folder, error) {
	var found *Folder
	var known []string
	err := s.kv.Iterate(s.tree(scope), func(_ []byte, raw []byte) error {
		f, err := s.decode(raw)
		if err != nil {
			return err
		}
		known = append(known, f.Name)
		if f.Name == name {
			if found != nil {
				return ferrors.Ambiguous.New("folder name " + name)
			}
			found = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ferrors.NotFound.New("folder", name+similartext.Find(known, name))
	}
	return found, nil
}

// List performs a full scan of every folder in scope, decrypting each.
func (s *Store) List(scope routing.Scope) ([]*Folder, error) {
	var out []*Folder
	err := s.kv.Iterate(s.tree(scope), func(_ []byte, raw []byte) error {
		f, err := s.decode(raw)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes only the schema record; tearing down item partitions is
// the item store's responsibility.
func (s *Store) Delete(scope routing.Scope, id string) error {
	return s.kv.Delete(s.tree(scope), []byte(id))
}

// HasColumn reports whether folderName (within scope) declares columnName.
func (s *Store) HasColumn(scope routing.Scope, folderName, columnName string) (bool, error) {
	f, err := s.GetByName(scope, folderName)
	if err != nil {
		return false, err
	}
	return f.HasColumn(columnName), nil
}

// GetColumnByName resolves a column config by folder and column display
// name.
func (s *Store) GetColumnByName(scope routing.Scope, folderName, columnName string) (*column.Config, error) {
	f, err := s.GetByName(scope, folderName)
	if err != nil {
		return nil, err
	}
	cfg, ok := f.ColumnByName(columnName)
	if !ok {
		names := make([]string, 0, len(f.ColumnOrder))
		for _, id := range f.ColumnOrder {
			if c := f.Columns[id]; c != nil {
				names = append(names, c.Name)
			}
		}
		return nil, ferrors.SchemaError.New("no such column " + columnName + " on folder " + folderName +
			similartext.Find(names, columnName))
	}
	return cfg, nil
}

// GetColumnByID resolves a column config by folder id and column id.
func (s *Store) GetColumnByID(scope routing.Scope, folderID, columnID string) (*column.Config, error) {
	f, err := s.Get(scope, folderID)
	if err != nil {
		return nil, err
	}
	cfg, ok := f.Columns[columnID]
	if !ok {
		return nil, ferrors.SchemaError.New("no such column id " + columnID + " on folder " + folderID)
	}
	return cfg, nil
}

// RegisterLinkMirror implements the LINK mirror discipline of §4.3: for a
// LINK column linkCol declared on owner pointing at remote, append (or
// refresh) a many=true back-reference column on remote so reverse traversal
// is a schema lookup. This method returns any error to its caller, which
// decides whether to log or propagate it; nothing in this module calls it
// automatically (CREATE FOLDER does not).
func (s *Store) RegisterLinkMirror(owner *Folder, remote *Folder, linkCol *column.Config) error {
	for _, ref := range remote.LinkBackRefs {
		if ref.FromFolder == owner.ID && ref.FromColumnID == linkCol.ID {
			return nil // already mirrored
		}
	}
	mirrorID := ids.New()
	mirrorCfg := &column.Config{
		ID:           mirrorID,
		Name:         owner.Name + " (" + linkCol.Name + ")",
		Type:         column.KindLink,
		Many:         true,
		LinkedFolder: owner.ID,
	}
	if remote.Columns == nil {
		remote.Columns = map[string]*column.Config{}
	}
	remote.Columns[mirrorID] = mirrorCfg
	remote.ColumnOrder = append(remote.ColumnOrder, mirrorID)
	remote.LinkBackRefs = append(remote.LinkBackRefs, LinkBackRef{
		FromFolder:   owner.ID,
		FromColumnID: linkCol.ID,
		MirrorColumn: mirrorID,
		Many:         true,
	})
	return s.Update(remote)
}

func (s *Store) decode(raw []byte) (*Folder, error) {
	var f Folder
	if err := codec.Decode(s.key, raw, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Slugify derives a folder or item slug from a display name: lowercased,
// non-alphanumeric runs collapsed to a single dash, leading/trailing dashes
// trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
