package pbxproj

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/soapywu/pbxsync/pbxplist"
)

// Bytes serializes the current tree.
func (p *Project) Bytes() []byte {
	return pbxplist.NewWriter(p.contents).Bytes()
}

// Write serializes the tree back to the manifest path. The data goes
// to a temp file in the same directory first and is renamed over the
// original, so a crash mid-write cannot leave a half-written manifest.
// The original file mode is preserved when the file exists.
func (p *Project) Write() error {
	return p.WriteTo(p.filePath)
}

func (p *Project) WriteTo(path string) error {
	data := p.Bytes()

	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pbxsync-*")
	if err != nil {
		return errors.Wrap(err, "create temp manifest")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp manifest")
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod temp manifest")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp manifest")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "replace manifest")
	}
	return nil
}
