package localfs

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"

	"xdao.co/sig448/cidutil"
	"xdao.co/sig448/sig448"
	"xdao.co/sig448/storage"
)

const sigExt = ".sig"

// Store is a local filesystem-backed message CAS with detached signatures.
//
// Messages live under <root>/objects and are keyed strictly by CID. Each
// signature is one lowercase hex line at <root>/sigs/<cid>/<signer>.sig and is
// parsed back through sig448.ParseHex on read.
// The store is offline and deterministic: it never uses the network and never
// depends on wall-clock time.
type Store struct {
	root string
}

var (
	_ storage.CAS            = (*Store)(nil)
	_ storage.SignatureStore = (*Store)(nil)
)

// New constructs a Store rooted at root. The directory will be created if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "localfs: create root")
	}
	return &Store{root: root}, nil
}

func (s *Store) Put(message []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawSHA256CID(message)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	path := s.objectPath(id)
	err = writeExclusive(path, message, 0o444)
	if os.IsExist(errors.Cause(err)) {
		existing, rerr := s.Get(id)
		if rerr != nil || !bytes.Equal(existing, message) {
			// Unreadable or corrupted objects are not repaired.
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	}
	if err != nil {
		return cid.Undef, errors.Wrapf(err, "localfs: write %s", id)
	}
	return id, nil
}

func (s *Store) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(s.objectPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrapf(err, "localfs: read %s", id)
	}
	got, err := cidutil.CIDv1RawSHA256CID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (s *Store) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(s.objectPath(id))
	return err == nil
}

// PutSignature records sig as signer's detached signature over message.
func (s *Store) PutSignature(message cid.Cid, signer string, sig sig448.Signature) error {
	if !message.Defined() {
		return storage.ErrInvalidCID
	}
	if err := checkSigner(signer); err != nil {
		return err
	}
	path := filepath.Join(s.sigDir(message), signer+sigExt)
	line := append(sig.AppendHex(make([]byte, 0, sig448.HexSize+1), sig448.Lower), '\n')

	err := writeExclusive(path, line, 0o444)
	if os.IsExist(errors.Cause(err)) {
		existing, rerr := readSignature(path)
		if rerr != nil || !existing.Equal(sig) {
			return storage.ErrImmutable
		}
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "localfs: write signature %s/%s", message, signer)
	}
	return nil
}

// Signatures returns every stored signature for message keyed by signer.
func (s *Store) Signatures(message cid.Cid) (map[string]sig448.Signature, error) {
	if !message.Defined() {
		return nil, storage.ErrInvalidCID
	}
	entries, err := os.ReadDir(s.sigDir(message))
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "localfs: list signatures %s", message)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), sigExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make(map[string]sig448.Signature, len(names))
	for _, name := range names {
		sig, err := readSignature(filepath.Join(s.sigDir(message), name))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(name, sigExt)] = sig
	}
	return out, nil
}

func readSignature(path string) (sig448.Signature, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sig448.Signature{}, errors.Wrapf(err, "localfs: read signature %s", filepath.Base(path))
	}
	// Records are written with exactly one trailing newline.
	sig, err := sig448.ParseHex(strings.TrimSuffix(string(b), "\n"))
	if err != nil {
		return sig448.Signature{}, errors.Wrapf(storage.ErrCorruptSignature, "%s: %v", filepath.Base(path), err)
	}
	return sig, nil
}

func writeExclusive(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func checkSigner(signer string) error {
	if signer == "" {
		return errors.New("localfs: signer cannot be empty")
	}
	for _, c := range signer {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.' || c == '@' {
			continue
		}
		return errors.Errorf("localfs: invalid character %q in signer", c)
	}
	if signer == "." || signer == ".." {
		return errors.Errorf("localfs: invalid signer %q", signer)
	}
	return nil
}

func (s *Store) objectPath(id cid.Cid) string {
	str := id.String()
	if len(str) < 2 {
		return filepath.Join(s.root, "objects", str)
	}
	return filepath.Join(s.root, "objects", str[:2], str)
}

func (s *Store) sigDir(id cid.Cid) string {
	return filepath.Join(s.root, "sigs", id.String())
}
