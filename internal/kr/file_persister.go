package kr

import (
	"io/ioutil"
	"os"
	"path/filepath"
)

// FilePersister is a thin file adapter for state rooted at a single
// directory - the non-core "file open/stat plumbing" spec.md treats as a
// collaborator of the core, not part of it. cmd/kr uses it for the
// dhm-alice session files; keyfiles, ciphertext, and signature files are
// read and written directly by path.
type FilePersister struct {
	Dir string
}

// Load reads the named file from the persister's directory.
func (fp FilePersister) Load(name string) ([]byte, error) {
	return ioutil.ReadFile(filepath.Join(fp.Dir, name))
}

// Save writes data to the named file in the persister's directory with
// owner-only permissions, matching the rest of this codebase's key-material
// handling.
func (fp FilePersister) Save(name string, data []byte) error {
	return ioutil.WriteFile(filepath.Join(fp.Dir, name), data, 0600)
}

// Delete removes the named file from the persister's directory.
func (fp FilePersister) Delete(name string) error {
	return os.Remove(filepath.Join(fp.Dir, name))
}

// Exists reports whether the named file exists in the persister's
// directory.
func (fp FilePersister) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(fp.Dir, name))
	return err == nil
}
