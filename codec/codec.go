// Package codec implements the single encrypted record codec shared by
// items, files and folder schemas. Records are framed with gob, then sealed
// with an authenticated cipher; small records use a single-shot AEAD, bulk
// files are sealed in fixed-size chunks so memory stays bounded regardless
// of file size.
package codec

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"encoding/gob"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/foliant-db/foliant/ferrors"
)

// ChunkSize is the plaintext chunk size used when streaming bulk files.
// Each ciphertext chunk on disk is ChunkSize+chacha20poly1305.Overhead
// bytes (500 + 16).
const ChunkSize = 500

// KeySize is the size in bytes of the pre-shared symmetric key.
const KeySize = chacha20poly1305.KeySize

// Key is the process-wide shared symmetric key used to seal every record.
type Key [KeySize]byte

// NewKey copies secret into a Key; secret must be exactly KeySize (32)
// bytes, otherwise BackendError is returned. No key derivation is done;
// callers typically load this from a key file or an environment-provided
// secret rather than generating it at random here.
func NewKey(secret []byte) (Key, error) {
	var k Key
	if len(secret) != KeySize {
		return k, ferrors.BackendError.New("shared key must be 32 bytes")
	}
	copy(k[:], secret)
	return k, nil
}

func aead(k Key) (cipher.AEAD, error) {
	a, err := chacha20poly1305.New(k[:])
	if err != nil {
		return nil, ferrors.BackendError.New(err.Error())
	}
	return a, nil
}

// Encode serializes v with gob and seals it as a single AEAD call. The
// returned bytes are nonce||ciphertext. Used for items, folder schemas and
// small inline file bodies.
func Encode(k Key, v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, ferrors.BackendError.New(err.Error())
	}

	a, err := aead(k)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, a.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, ferrors.BackendError.New(err.Error())
	}

	sealed := a.Seal(nil, nonce, buf.Bytes(), nil)
	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// Decode is the inverse of Encode. It fails with CorruptRecord on MAC
// mismatch or framing error.
func Decode(k Key, data []byte, v interface{}) error {
	a, err := aead(k)
	if err != nil {
		return err
	}

	if len(data) < a.NonceSize() {
		return ferrors.CorruptRecord.New("ciphertext too short")
	}
	nonce, sealed := data[:a.NonceSize()], data[a.NonceSize():]

	plain, err := a.Open(nil, nonce, sealed, nil)
	if err != nil {
		return ferrors.CorruptRecord.New(err.Error())
	}

	if err := gob.NewDecoder(bytes.NewReader(plain)).Decode(v); err != nil {
		return ferrors.CorruptRecord.New(err.Error())
	}
	return nil
}

// EncodeStream reads all of r, sealing it in ChunkSize-byte plaintext
// chunks, each with its own nonce derived from a random base nonce plus a
// monotonically incrementing counter. Written framing is:
//
//	baseNonce (a.NonceSize() bytes) || chunk0 || chunk1 || ...
//
// where each chunk is ChunkSize+Overhead bytes except possibly the last.
func EncodeStream(k Key, w io.Writer, r io.Reader) error {
	a, err := aead(k)
	if err != nil {
		return err
	}

	base := make([]byte, a.NonceSize())
	if _, err := io.ReadFull(rand.Reader, base); err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	if _, err := w.Write(base); err != nil {
		return ferrors.BackendError.New(err.Error())
	}

	buf := make([]byte, ChunkSize)
	var counter uint64
	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			nonce := chunkNonce(base, counter)
			sealed := a.Seal(nil, nonce, buf[:n], nil)
			if _, err := w.Write(sealed); err != nil {
				return ferrors.BackendError.New(err.Error())
			}
			counter++
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return ferrors.BackendError.New(readErr.Error())
		}
	}
	return nil
}

// DecodeStream is the inverse of EncodeStream; it writes the recovered
// plaintext to w. It fails with CorruptRecord on the first chunk whose MAC
// does not verify.
func DecodeStream(k Key, w io.Writer, r io.Reader) error {
	a, err := aead(k)
	if err != nil {
		return err
	}

	base := make([]byte, a.NonceSize())
	if _, err := io.ReadFull(r, base); err != nil {
		return ferrors.CorruptRecord.New("missing stream header")
	}

	sealedChunk := make([]byte, ChunkSize+a.Overhead())
	var counter uint64
	for {
		n, readErr := io.ReadFull(r, sealedChunk)
		if n > 0 {
			nonce := chunkNonce(base, counter)
			plain, err := a.Open(nil, nonce, sealedChunk[:n], nil)
			if err != nil {
				return ferrors.CorruptRecord.New(err.Error())
			}
			if _, err := w.Write(plain); err != nil {
				return ferrors.BackendError.New(err.Error())
			}
			counter++
		}
		if readErr == io.EOF {
			break
		}
		if readErr == io.ErrUnexpectedEOF {
			// final, short chunk already handled above
			break
		}
		if readErr != nil {
			return ferrors.CorruptRecord.New(readErr.Error())
		}
	}
	return nil
}

// chunkNonce derives a per-chunk nonce by XOR-ing a big-endian counter into
// the tail of the base nonce, so the base is drawn once per stream and every
// chunk still gets a distinct nonce.
func chunkNonce(base []byte, counter uint64) []byte {
	nonce := append([]byte(nil), base...)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], counter)
	off := len(nonce) - len(ctr)
	for i := 0; i < len(ctr); i++ {
		nonce[off+i] ^= ctr[i]
	}
	return nonce
}
