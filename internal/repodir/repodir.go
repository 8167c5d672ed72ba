// Package repodir locates the repository root that anchors the launcher
// manifest, the dependency files, and the child's working directory.
package repodir

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// Locate walks upward from start looking for the enclosing git repository and
// returns its worktree root. Outside any repository (a source tarball,
// a plain download) start itself is the root.
func Locate(start string) (string, error) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return start, nil
		}
		return "", fmt.Errorf("open repository at %s: %w", start, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to launch from.
		return start, nil
	}
	return wt.Filesystem.Root(), nil
}
