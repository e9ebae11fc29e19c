package preconditions

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// CheckOutputDir verifies that the output folder exists, is a directory, and
// is writable by the current process. Writability is probed with a temp file
// because permission bits alone lie on network and FAT filesystems.
func CheckOutputDir(dir string) error {
	if dir == "" {
		return errors.New("output folder must exist")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.New("output folder must exist")
	}

	probe, err := os.CreateTemp(dir, ".paramexport-*")
	if err != nil {
		return errors.New("output folder is not writable")
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// CheckReadableFile verifies that path names an existing, readable regular
// file with one of the given extensions (empty list accepts any).
func CheckReadableFile(path string, exts ...string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "cannot access file %s", path)
	}
	if info.IsDir() {
		return errors.Newf("%s is a directory, not a file", path)
	}

	if len(exts) > 0 {
		ext := filepath.Ext(path)
		ok := false
		for _, e := range exts {
			if ext == e {
				ok = true
				break
			}
		}
		if !ok {
			return errors.Newf("%s has an unexpected extension (want %v)", path, exts)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot read file %s", path)
	}
	f.Close()
	return nil
}
