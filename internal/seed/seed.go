package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"metafs/internal/fs"
	"metafs/internal/logging"
)

var (
	logger = logging.GetLogger().WithPrefix("seed")
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// Default returns the built-in bootstrap seed: one example file whose
// extended attributes demonstrate the metadata feature without any
// prior setup.
func Default() *Seed {
	return &Seed{
		Files: []File{
			{
				Path:    "/exemplo.txt",
				Mode:    defaultFileMode,
				Content: "This file has metadata!\n",
				Xattrs: map[string]string{
					"user.category":       "documents",
					"user.tags":           "sample,python",
					"user.classification": "important",
				},
			},
		},
	}
}

// Load reads a seed description from a JSON file.
func Load(path string) (*Seed, error) {
	logger.Debug("Loading seed file: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	logger.Info("Loaded seed: %d directories, %d files", len(s.Directories), len(s.Files))
	return &s, nil
}

// Apply populates the engine with the seeded tree, going through the
// same operations the kernel bridge uses.
func (s *Seed) Apply(ops fs.Operations) error {
	for _, d := range s.Directories {
		path := fs.NewPath(d.Path)
		mode := os.FileMode(d.Mode)
		if d.Mode == 0 {
			mode = defaultDirMode
		}
		logger.Debug("Seeding directory %q", path)
		if err := ops.Mkdir(path, mode); err != nil {
			return fmt.Errorf("seed mkdir %s: %w", d.Path, err)
		}
		if err := applyXattrs(ops, path, d.Xattrs); err != nil {
			return err
		}
	}

	for _, f := range s.Files {
		path := fs.NewPath(f.Path)
		mode := os.FileMode(f.Mode)
		if f.Mode == 0 {
			mode = defaultFileMode
		}
		logger.Debug("Seeding file %q (%d bytes, %d xattrs)", path, len(f.Content), len(f.Xattrs))
		if err := ops.Create(path, mode); err != nil {
			return fmt.Errorf("seed create %s: %w", f.Path, err)
		}
		if len(f.Content) > 0 {
			if _, err := ops.Write(path, 0, []byte(f.Content)); err != nil {
				return fmt.Errorf("seed write %s: %w", f.Path, err)
			}
		}
		if err := applyXattrs(ops, path, f.Xattrs); err != nil {
			return err
		}
	}
	return nil
}

// applyXattrs sets attributes in sorted name order so a seeded tree
// always lists the same way.
func applyXattrs(ops fs.Operations, path fs.Path, xattrs map[string]string) error {
	names := make([]string, 0, len(xattrs))
	for name := range xattrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ops.Setxattr(path, name, []byte(xattrs[name]), fs.XattrCreateOrReplace); err != nil {
			return fmt.Errorf("seed setxattr %s on %s: %w", name, path, err)
		}
	}
	return nil
}
