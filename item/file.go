package item

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/foliant-db/foliant/codec"
	"github.com/foliant-db/foliant/column"
	"github.com/foliant-db/foliant/ferrors"
	"github.com/foliant-db/foliant/ids"
	"github.com/foliant-db/foliant/routing"
)

// PutFile persists a file's bytes as the File column kind's backing blob
// (§3's "File record"): at or below column.MaxFileDB bytes it is sealed
// inline into the files sub-tree, above that threshold it is stream-sealed
// in fixed-size chunks to a sibling file on disk and only its path is
// recorded. The content is passed in whole, as one byte slice.
func (s *Store) PutFile(scope routing.Scope, folderID, originalName, contentType, fileType string, content []byte) (*FileRecord, error) {
	rec := &FileRecord{
		ID:           ids.New(),
		OriginalName: originalName,
		Size:         int64(len(content)),
		ContentType:  contentType,
		FileType:     fileType,
		Scope:        scope,
	}

	if rec.Size <= column.MaxFileDB {
		rec.Content = content
	} else {
		path := s.blobPath(folderID, rec.ID)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, ferrors.BackendError.Wrap(err, "creating blob directory")
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, ferrors.BackendError.Wrap(err, "creating blob file")
		}
		err = codec.EncodeStream(s.key, f, bytes.NewReader(content))
		closeErr := f.Close()
		if err != nil {
			return nil, ferrors.BackendError.Wrap(err, "sealing blob "+rec.ID)
		}
		if closeErr != nil {
			return nil, ferrors.BackendError.Wrap(closeErr, "closing blob "+rec.ID)
		}
		rec.Path = path
	}

	ciphertext, err := codec.Encode(s.key, rec)
	if err != nil {
		return nil, ferrors.BackendError.Wrap(err, "encoding file record "+rec.ID)
	}
	if err := s.kv.Put(filesTree(scope.Key(), folderID), []byte(rec.ID), ciphertext); err != nil {
		return nil, ferrors.BackendError.Wrap(err, "writing file record "+rec.ID)
	}
	return rec, nil
}

// GetFile resolves a file record and its full plaintext content, reading
// through the on-disk blob when the record holds a Path rather than inline
// Content.
func (s *Store) GetFile(scope routing.Scope, folderID, fileID string) (*FileRecord, []byte, error) {
	raw, ok, err := s.kv.Get(filesTree(scope.Key(), folderID), []byte(fileID))
	if err != nil {
		return nil, nil, ferrors.BackendError.Wrap(err, "reading file record "+fileID)
	}
	if !ok {
		return nil, nil, ferrors.NotFound.New("file", fileID)
	}
	var rec FileRecord
	if err := codec.Decode(s.key, raw, &rec); err != nil {
		return nil, nil, err
	}

	if rec.Path == "" {
		return &rec, rec.Content, nil
	}

	f, err := os.Open(rec.Path)
	if err != nil {
		return nil, nil, ferrors.BackendError.Wrap(err, "opening blob "+fileID)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := codec.DecodeStream(s.key, &buf, f); err != nil {
		return nil, nil, err
	}
	return &rec, buf.Bytes(), nil
}

// DeleteFile removes a file record and its on-disk blob, if any.
func (s *Store) DeleteFile(scope routing.Scope, folderID, fileID string) error {
	raw, ok, err := s.kv.Get(filesTree(scope.Key(), folderID), []byte(fileID))
	if err != nil {
		return ferrors.BackendError.Wrap(err, "reading file record "+fileID)
	}
	if ok {
		var rec FileRecord
		if err := codec.Decode(s.key, raw, &rec); err == nil && rec.Path != "" {
			_ = os.Remove(rec.Path)
		}
	}
	return s.kv.Delete(filesTree(scope.Key(), folderID), []byte(fileID))
}

// blobPath derives the on-disk path for an over-threshold file blob,
// nested alongside the boltdb file backing this store.
func (s *Store) blobPath(folderID, fileID string) string {
	return filepath.Join(filepath.Dir(s.kv.Path()), "blobs", folderID, fileID+".enc")
}
