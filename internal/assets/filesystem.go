package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxAssetSize caps asset files read from disk.
const maxAssetSize = 1 << 20

// FilesystemLoader reads rule sets and shells from a directory laid out as
// rules/{name}.txt and shells/{name}.html.
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader returns a loader rooted at basePath, which must be an
// existing readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	switch _, err := os.ReadDir(root); {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: cannot read %s: %v", ErrInvalidBasePath, root, err)
	}

	return &FilesystemLoader{root: root}, nil
}

// LoadRules reads rules/{name}.txt.
func (f *FilesystemLoader) LoadRules(name string) (string, error) {
	return f.read(filepath.Join("rules", name+".txt"), name, ErrRulesNotFound)
}

// LoadShell reads shells/{name}.html.
func (f *FilesystemLoader) LoadShell(name string) (string, error) {
	return f.read(filepath.Join("shells", name+".html"), name, ErrShellNotFound)
}

func (f *FilesystemLoader) read(rel, name string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path, err := f.contain(filepath.Join(f.root, rel))
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	case info.Size() > maxAssetSize:
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrAssetRead, path, maxAssetSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- contained in root
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyAsset, path)
	}
	return text, nil
}

// contain resolves symlinks in path and rejects anything that lands outside
// the root. A path that does not exist yet is checked as written.
func (f *FilesystemLoader) contain(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	return path, nil
}

var _ Loader = (*FilesystemLoader)(nil)
