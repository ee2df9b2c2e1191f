// Package gitrepo implements domain.GitRepository with go-git. Everything
// here is read-side or local tag creation; pushes stay on the system git
// binary so credential helpers and SSH agents keep working.
package gitrepo

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/relkit/relkit/internal/domain"
)

type Repository struct {
	root string
	repo *git.Repository
}

// Open opens the repository at root.
func Open(root string) (*Repository, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("opening git repo at %s: %w", root, err)
	}
	return &Repository{root: root, repo: repo}, nil
}

func (r *Repository) IsClean() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading status: %w", err)
	}
	return status.IsClean(), nil
}

func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// Commits returns up to limit commits reachable from any ref, newest
// first. limit <= 0 means no limit.
func (r *Repository) Commits(limit int) ([]domain.Commit, error) {
	iter, err := r.repo.Log(&git.LogOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []domain.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, domain.Commit{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Author:  fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
		})
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// Branches lists local and remote-tracking branch names.
func (r *Repository) Branches() ([]string, error) {
	var names []string

	locals, err := r.repo.Branches()
	if err != nil {
		return nil, err
	}
	_ = locals.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})

	refs, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})

	return names, nil
}

func (r *Repository) TagExists(tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	return false, err
}

// CreateTag creates an annotated tag at HEAD.
func (r *Repository) CreateTag(tag, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	tagger := &object.Signature{Name: "relkit", When: time.Now()}
	if cfg, err := r.repo.ConfigScoped(gitconfig.GlobalScope); err == nil && cfg.User.Name != "" {
		tagger = &object.Signature{
			Name:  cfg.User.Name,
			Email: cfg.User.Email,
			When:  time.Now(),
		}
	}

	_, err = r.repo.CreateTag(tag, head.Hash(), &git.CreateTagOptions{
		Tagger:  tagger,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("creating tag %s: %w", tag, err)
	}
	return nil
}

// Submodules reports the configured submodules. A submodule is stale when
// its checked-out commit differs from the commit recorded in the index, or
// its worktree is dirty.
func (r *Repository) Submodules() ([]domain.Submodule, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	subs, err := wt.Submodules()
	if err != nil {
		return nil, fmt.Errorf("reading submodules: %w", err)
	}

	var out []domain.Submodule
	for _, sub := range subs {
		cfg := sub.Config()
		entry := domain.Submodule{
			Name:   cfg.Name,
			Path:   cfg.Path,
			URL:    cfg.URL,
			Branch: cfg.Branch,
		}
		if status, err := sub.Status(); err == nil {
			entry.Stale = !status.IsClean() || status.Current != status.Expected
		}
		out = append(out, entry)
	}
	return out, nil
}
