// Package gitclient reads archive and type definition files from a remote Git
// repository without checking out a worktree.
package gitclient

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Auth holds Basic Auth credentials.
// For Bitbucket Cloud access tokens, use "x-token-auth" as Username
// and the token as Password.
type Auth struct {
	Username string
	Password string // or Token
}

func (a *Auth) method() transport.AuthMethod {
	if a == nil {
		return nil
	}
	return &http.BasicAuth{Username: a.Username, Password: a.Password}
}

// Client holds a clone of the repository's object database in memory.
// It is safe for concurrent use.
type Client struct {
	url  string
	auth *Auth

	mu   sync.RWMutex
	repo *git.Repository
}

// New clones the repository at url into memory.
func New(url string, auth *Auth) (*Client, error) {
	// No checkout: only the object database is needed to read files at any revision.
	repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{
		URL:        url,
		NoCheckout: true,
		Auth:       auth.method(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return &Client{url: url, auth: auth, repo: repo}, nil
}

// Update fetches new commits, branches and tags from the remote.
func (c *Client) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.repo.Fetch(&git.FetchOptions{
		RefSpecs: []config.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
		Tags:     git.AllTags,
		Auth:     c.auth.method(),
		Force:    true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %s: %w", c.url, err)
	}
	return nil
}

// DefaultBranch returns the short name of the branch HEAD pointed to when the repository was cloned.
func (c *Client) DefaultBranch() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("cannot resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not a branch: %s", head.Name())
	}
	return head.Name().Short(), nil
}

// ListReferences returns the short names of all branches and tags, in no particular order.
// Remote branches are listed without the remote's name.
func (c *Client) ListReferences() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	refs, err := c.repo.References()
	if err != nil {
		return nil, err
	}
	refMap := make(map[string]bool)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		if name.IsTag() || name.IsBranch() {
			refMap[name.Short()] = true
		} else if name.IsRemote() {
			// refs/remotes/origin/main has short name origin/main.
			short := name.Short()
			if i := strings.Index(short, "/"); i != -1 && short[i+1:] != "HEAD" {
				refMap[short[i+1:]] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	references := make([]string, 0, len(refMap))
	for v := range refMap {
		references = append(references, v)
	}
	return references, nil
}

func (c *Client) resolveRevision(revision string) (*plumbing.Hash, error) {
	// Update only moves remote branches, so they take precedence over the local
	// branch created by the clone.
	if !strings.HasPrefix(revision, "refs/") {
		if hash, err := c.repo.ResolveRevision(plumbing.Revision("origin/" + revision)); err == nil {
			return hash, nil
		}
	}
	hash, err := c.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("revision %q not found: %w", revision, err)
	}
	return hash, nil
}

func (c *Client) tree(revision string) (*object.Tree, error) {
	hash, err := c.resolveRevision(revision)
	if err != nil {
		return nil, err
	}
	commit, err := c.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("commit lookup failed: %w", err)
	}
	return commit.Tree()
}

// ReadFile returns the contents of filePath at the given revision (branch, tag or hash).
func (c *Client) ReadFile(revision, filePath string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tree, err := c.tree(revision)
	if err != nil {
		return nil, err
	}
	file, err := tree.File(filePath)
	if err != nil {
		return nil, err // object.ErrFileNotFound if missing
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// ListFilesRecursive lists all files under dirPath at the given revision.
// The returned paths are relative to dirPath.
func (c *Client) ListFilesRecursive(revision, dirPath string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rootTree, err := c.tree(revision)
	if err != nil {
		return nil, err
	}
	targetTree := rootTree
	if dirPath != "" && dirPath != "." && dirPath != "/" {
		targetTree, err = rootTree.Tree(dirPath)
		if err != nil {
			return nil, fmt.Errorf("directory %q not found or invalid: %w", dirPath, err)
		}
	}
	var filePaths []string
	iter := targetTree.Files()
	defer iter.Close()
	err = iter.ForEach(func(f *object.File) error {
		filePaths = append(filePaths, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iteration failed: %w", err)
	}
	return filePaths, nil
}
