package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dnswlt/metamap/internal/gitclient"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
)

// createTestRepo initializes a git repo in a temp dir and returns the path to that directory.
// master is tagged v1.0.0 and contains archive/assets.yml and types/kafka.yml.
// The branch feature/tags adds archive/tags.yml.
func createTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	write := func(name, content string) {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	commit := func(msg string) plumbing.Hash {
		if _, err := w.Add("."); err != nil {
			t.Fatalf("Failed to add files: %v", err)
		}
		h, err := w.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
		})
		if err != nil {
			t.Fatalf("Failed to commit: %v", err)
		}
		return h
	}

	write("archive/assets.yml", assetsArchive)
	write("types/kafka.yml", kafkaTypes)
	h := commit("Add assets")
	if _, err := repo.CreateTag("v1.0.0", h, nil); err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}

	err = w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature/tags"),
		Create: true,
	})
	if err != nil {
		t.Fatalf("Failed to checkout branch: %v", err)
	}
	write("archive/tags.yml", tagsArchive)
	commit("Add tags")

	if err := w.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName("master")}); err != nil {
		t.Fatalf("Failed to checkout master: %v", err)
	}
	return dir
}

func TestGitSource(t *testing.T) {
	repoPath := createTestRepo(t)
	client, err := gitclient.New(repoPath, nil)
	if err != nil {
		t.Fatalf("gitclient.New failed: %v", err)
	}
	gs := NewGitSource(client, "", "")

	t.Run("ListReferences", func(t *testing.T) {
		refs, err := gs.ListReferences()
		if err != nil {
			t.Fatalf("ListReferences() failed: %v", err)
		}
		want := []string{"feature/tags", "master", "v1.0.0"}
		if diff := cmp.Diff(want, refs); diff != "" {
			t.Errorf("ListReferences() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Store_DefaultBranch", func(t *testing.T) {
		st, err := gs.Store("")
		if err != nil {
			t.Fatalf("Store(\"\") failed: %v", err)
		}
		a, err := LoadArchive(st, "archive")
		if err != nil {
			t.Fatalf("LoadArchive() failed: %v", err)
		}
		// master does not have the tags archive.
		if len(a.Entities) != 1 || a.Entity("asset-1") == nil {
			t.Errorf("got entities %v, want only asset-1", a.Entities)
		}
	})

	t.Run("Store_Branch", func(t *testing.T) {
		st, err := gs.Store("feature/tags")
		if err != nil {
			t.Fatalf("Store(\"feature/tags\") failed: %v", err)
		}
		a, err := LoadArchive(st, "archive")
		if err != nil {
			t.Fatalf("LoadArchive() failed: %v", err)
		}
		if a.Entity("tag-1") == nil {
			t.Error("entity tag-1 not found on feature/tags")
		}
	})

	t.Run("Store_InvalidRef", func(t *testing.T) {
		if _, err := gs.Store("non-existent"); !errors.Is(err, ErrNoSuchRef) {
			t.Errorf("Store(\"non-existent\") error = %v, want ErrNoSuchRef", err)
		}
	})

	t.Run("GitStore_ListFiles", func(t *testing.T) {
		st, err := gs.Store("v1.0.0")
		if err != nil {
			t.Fatalf("Store(\"v1.0.0\") failed: %v", err)
		}
		files, err := st.ListFiles(".")
		if err != nil {
			t.Fatalf("ListFiles(.) failed: %v", err)
		}
		slices.Sort(files)
		want := []string{"archive/assets.yml", "types/kafka.yml"}
		if diff := cmp.Diff(want, files); diff != "" {
			t.Errorf("ListFiles(.) mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GitStore_WriteFile", func(t *testing.T) {
		st, err := gs.Store("master")
		if err != nil {
			t.Fatalf("Store(\"master\") failed: %v", err)
		}
		if err := st.WriteFile("any.yml", []byte("foo")); !errors.Is(err, ErrReadOnly) {
			t.Errorf("WriteFile() error = %v, want ErrReadOnly", err)
		}
	})
}

func TestGitSourceWithRootDir(t *testing.T) {
	repoPath := createTestRepo(t)
	client, err := gitclient.New(repoPath, nil)
	if err != nil {
		t.Fatalf("gitclient.New failed: %v", err)
	}
	gs := NewGitSource(client, "master", "archive")
	st, err := gs.Store("")
	if err != nil {
		t.Fatalf("Store(\"\") failed: %v", err)
	}
	files, err := st.ListFiles(".")
	if err != nil {
		t.Fatalf("ListFiles(.) failed: %v", err)
	}
	if diff := cmp.Diff([]string{"assets.yml"}, files); diff != "" {
		t.Errorf("ListFiles(.) mismatch (-want +got):\n%s", diff)
	}
	content, err := st.ReadFile("assets.yml")
	if err != nil {
		t.Fatalf("ReadFile(assets.yml) failed: %v", err)
	}
	if string(content) != assetsArchive {
		t.Errorf("ReadFile(assets.yml) = %q, want the assets archive", content)
	}
}

func TestGitSourceMatchesDiskStore(t *testing.T) {
	repoPath := createTestRepo(t)
	client, err := gitclient.New(repoPath, nil)
	if err != nil {
		t.Fatalf("gitclient.New failed: %v", err)
	}
	gs := NewGitSource(client, "master", "")
	st, err := gs.Store("")
	if err != nil {
		t.Fatalf("Store(\"\") failed: %v", err)
	}
	gitArchive, err := LoadArchive(st, "archive")
	if err != nil {
		t.Fatalf("LoadArchive() from git failed: %v", err)
	}

	ds := writeFiles(t, map[string]string{"archive/assets.yml": assetsArchive})
	diskArchive, err := LoadArchive(ds, "archive")
	if err != nil {
		t.Fatalf("LoadArchive() from disk failed: %v", err)
	}

	if diff := cmp.Diff(diskArchive.Entities, gitArchive.Entities); diff != "" {
		t.Errorf("Entities mismatch (-disk +git):\n%s", diff)
	}
	if diff := cmp.Diff(diskArchive.Relationships, gitArchive.Relationships); diff != "" {
		t.Errorf("Relationships mismatch (-disk +git):\n%s", diff)
	}
}
