// Package gitinfo reads lightweight metadata from the checked-out source
// tree. The pipeline logs the commit a run built so artifact names can be
// traced back; it is informational only and never fails a run.
package gitinfo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// HeadCommit returns the abbreviated hash of HEAD in the repository at
// path, or an error when path is not a repository.
func HeadCommit(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String()[:12], nil
}
