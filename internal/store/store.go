package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dnswlt/metamap/internal/gitclient"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

var (
	ErrReadOnly  = errors.New("store is read-only")
	ErrNoSuchRef = errors.New("no such ref")
)

// Source is the abstraction over different types of storage layers,
// in particular local disk (non-versioned) and a Git repo (read-only).
type Source interface {
	// Refresh updates the internal state of the source (e.g., via git fetch).
	// For a disk store, this is a no-op.
	Refresh() error
	// Store returns a handle to a store at the given ref.
	// For non-versioned disk-based stores, ref must be "".
	Store(ref string) (Store, error)
}

// Store is a minimal abstraction to list, read, and write files.
// It is the common interface for disk-based and git-repo-based stores.
type Store interface {
	// ListFiles lists all files in dir (recursively).
	// The resulting paths are relative to the store's root directory,
	// so they can be passed to ReadFile and WriteFile unmodified.
	ListFiles(dir string) ([]string, error)
	// ReadFile reads the contents of path from the store.
	// path should be a relative path (e.g., "archive/assets.yml").
	ReadFile(path string) ([]byte, error)
	// WriteFile writes the given contents to path in the store.
	// Stores that do not support writing return ErrReadOnly.
	WriteFile(path string, contents []byte) error
}

// DiskStore is an implementation of Source and Store that reads files from the local file system.
type DiskStore struct {
	rootDir string
}

var _ Source = (*DiskStore)(nil)
var _ Store = (*DiskStore)(nil)

func NewDiskStore(rootDir string) *DiskStore {
	return &DiskStore{
		rootDir: rootDir,
	}
}

func (d *DiskStore) Refresh() error {
	return nil
}

func (d *DiskStore) Store(ref string) (Store, error) {
	if ref != "" {
		return nil, fmt.Errorf("invalid ref %q: %w", ref, ErrNoSuchRef)
	}
	return d, nil
}

func (d *DiskStore) ListFiles(dir string) ([]string, error) {
	return listFilesRecursively(d.rootDir, dir)
}

func resolveRelPath(root, subpath string) (string, error) {
	fullPath := filepath.Join(root, subpath)
	rel, err := filepath.Rel(root, fullPath)
	if err != nil {
		return "", fmt.Errorf("not a relative path: %v", err) // e.g. paths on different volumes
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes root directory", subpath)
	}
	return fullPath, nil
}

func (d *DiskStore) ReadFile(path string) ([]byte, error) {
	fullPath, err := resolveRelPath(d.rootDir, path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(fullPath)
}

func (d *DiskStore) WriteFile(path string, contents []byte) error {
	fullPath, err := resolveRelPath(d.rootDir, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, contents, 0644)
}

// GitSource is an implementation of Source that reads from a remote Git repository.
type GitSource struct {
	client     *gitclient.Client
	defaultRef string   // ref to use if the empty ref ("") is requested
	rootDir    string   // directory in the repository that stores are rooted at
	refs       []string // cached list of available references
}

// gitStore is a view over a single revision in a GitSource.
type gitStore struct {
	client  *gitclient.Client
	ref     string
	rootDir string
}

var _ Source = (*GitSource)(nil)
var _ Store = (*gitStore)(nil)

// NewGitSource returns a source for the repository of client. If defaultRef is empty,
// the repository's default branch is used. Paths in the source's stores are relative
// to rootDir ("" for the repository root).
func NewGitSource(client *gitclient.Client, defaultRef, rootDir string) *GitSource {
	return &GitSource{
		client:     client,
		defaultRef: defaultRef,
		rootDir:    rootDir,
	}
}

func (g *GitSource) DefaultRef() string {
	return g.defaultRef
}

func (g *GitSource) Refresh() error {
	g.refs = nil
	return g.client.Update()
}

func (g *GitSource) Store(ref string) (Store, error) {
	if ref == "" {
		ref = g.defaultRef
	}
	if ref == "" {
		b, err := g.client.DefaultBranch()
		if err != nil {
			return nil, err
		}
		ref = b
	}
	refs, err := g.ListReferences()
	if err != nil {
		return nil, fmt.Errorf("cannot list references: %v", err)
	}
	if !slices.Contains(refs, ref) {
		return nil, ErrNoSuchRef
	}
	return &gitStore{
		client:  g.client,
		ref:     ref,
		rootDir: g.rootDir,
	}, nil
}

// ListReferences returns the sorted names of all branches and tags.
func (g *GitSource) ListReferences() ([]string, error) {
	if g.refs != nil {
		return g.refs, nil
	}
	refs, err := g.client.ListReferences()
	if err != nil {
		return nil, err
	}
	slices.Sort(refs)
	g.refs = refs
	return refs, nil
}

// Paths in git trees always use "/", so gitStore uses package path, not filepath.

func (g *gitStore) ListFiles(dir string) ([]string, error) {
	files, err := g.client.ListFilesRecursive(g.ref, path.Join(g.rootDir, dir))
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %v", err)
	}
	result := make([]string, len(files))
	for i, f := range files {
		result[i] = path.Join(dir, f)
	}
	return result, nil
}

func (g *gitStore) ReadFile(p string) ([]byte, error) {
	return g.client.ReadFile(g.ref, path.Join(g.rootDir, p))
}

func (g *gitStore) WriteFile(path string, contents []byte) error {
	return ErrReadOnly
}

// listFilesRecursively lists all files in subDir, which must
// be a relative path specifying a sub-directory of rootDir.
// The resulting paths will all be relative to rootDir.
//
// Example:
// with rootDir "/foo/bar" and subDir "baz/quz", all files under
// "/foo/bar/baz/quz" will be returned, relative to "/foo/bar", such as
// ["baz/quz/yankee.yml"].
func listFilesRecursively(rootDir, subDir string) ([]string, error) {
	startDir, err := resolveRelPath(rootDir, subDir)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(startDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// YAMLFiles lists all *.yml and *.yaml files under dir, which must be
// a relative path (relative to the store's root). The result is sorted.
func YAMLFiles(st Store, dir string) ([]string, error) {
	allFiles, err := st.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, f := range allFiles {
		if isYAML(f) {
			result = append(result, f)
		}
	}
	slices.Sort(result)
	return result, nil
}

// LoadArchive reads all archive files under dir into a single archive.
// GUIDs must be unique across all files.
func LoadArchive(st Store, dir string) (*instance.Archive, error) {
	files, err := YAMLFiles(st, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list archive files in %q: %w", dir, err)
	}
	archive := &instance.Archive{}
	for _, f := range files {
		bs, err := st.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("cannot read archive file %q: %w", f, err)
		}
		a, err := instance.ReadArchive(bs, f)
		if err != nil {
			return nil, err
		}
		if err := archive.Merge(a); err != nil {
			return nil, fmt.Errorf("cannot merge archive file %q: %w", f, err)
		}
	}
	return archive, nil
}

// LoadTypes adds the type and enum definitions of the given files to types.
// A path that names a directory adds all YAML files in it.
func LoadTypes(st Store, types *typedef.Registry, paths ...string) error {
	for _, p := range paths {
		files := []string{p}
		if !isYAML(p) {
			dirFiles, err := YAMLFiles(st, p)
			if err != nil {
				return fmt.Errorf("cannot list type definition files in %q: %w", p, err)
			}
			files = dirFiles
		}
		for _, f := range files {
			bs, err := st.ReadFile(f)
			if err != nil {
				return fmt.Errorf("cannot read type definitions %q: %w", f, err)
			}
			if err := types.Load(bs, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteArchive writes all instances of a to path. Only disk-based stores can be written to.
func WriteArchive(st Store, path string, a *instance.Archive) error {
	if _, ok := st.(*DiskStore); !ok {
		return fmt.Errorf("cannot write archive to store of type %T: %w", st, ErrReadOnly)
	}
	var buf bytes.Buffer
	if err := instance.WriteArchive(&buf, a); err != nil {
		return fmt.Errorf("failed to encode archive %s: %w", path, err)
	}
	return st.WriteFile(path, buf.Bytes())
}
