// Package vcs clones repositories and checks out their most recent tag.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"coverage-miner/internal/errs"
	"coverage-miner/pkg/logger"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/time/rate"
)

const DefaultCloneTimeout = 5 * time.Minute

// Options configures a Cloner.
type Options struct {
	// Host is prefixed to "owner/name", e.g. "https://github.com".
	Host    string
	Token   string
	Timeout time.Duration
	// ClonesPerMinute throttles clones when positive.
	ClonesPerMinute float64
}

type Cloner struct {
	host    string
	auth    transport.AuthMethod
	timeout time.Duration
	limiter *rate.Limiter
	logger  logger.Logger
}

func NewCloner(opts Options, logger logger.Logger) *Cloner {
	c := &Cloner{
		host:    strings.TrimRight(opts.Host, "/"),
		timeout: opts.Timeout,
		logger:  logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultCloneTimeout
	}
	if opts.Token != "" {
		// any non-empty user name works with a token
		c.auth = &http.BasicAuth{Username: "miner", Password: opts.Token}
	}
	if opts.ClonesPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.ClonesPerMinute/60), 1)
	}
	return c
}

// URL returns the remote of repository name ("owner/name").
func (c *Cloner) URL(name string) string {
	return c.host + "/" + strings.Trim(name, "/")
}

// Clone fetches name into dir with every tag. Any failure, including the deadline, is a
// clone_timeout.
func (c *Cloner) Clone(ctx context.Context, name, dir string) (*Checkout, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errs.New(errs.CauseCloneTimeout, err)
		}
	}

	cloneCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	startTime := time.Now()
	repo, err := git.PlainCloneContext(cloneCtx, dir, false, &git.CloneOptions{
		URL:      c.URL(name),
		Auth:     c.auth,
		Tags:     git.AllTags,
		Progress: io.Discard,
	})
	if err != nil {
		return nil, errs.New(errs.CauseCloneTimeout, fmt.Errorf("clone %s: %w", name, err))
	}
	c.logger.Info("cloned %s in %v", name, time.Since(startTime))
	return &Checkout{repo: repo, Dir: dir}, nil
}

// Checkout is a local working copy.
type Checkout struct {
	repo *git.Repository
	Dir  string
}

// Open wraps an existing working copy.
func Open(dir string) (*Checkout, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	return &Checkout{repo: repo, Dir: dir}, nil
}

// Tag is a tag resolved to the commit it points at.
type Tag struct {
	Name   string
	Commit plumbing.Hash
	When   time.Time
}

// LatestTag returns the tag whose commit is the most recent by committer time. Ties go to
// the lexically greatest name. A repository without tags on commits fails with missing_tag.
func (c *Checkout) LatestTag() (*Tag, error) {
	iter, err := c.repo.Tags()
	if err != nil {
		return nil, errs.New(errs.CauseCloneTimeout, fmt.Errorf("list tags: %w", err))
	}
	defer iter.Close()

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		commit, err := c.tagCommit(ref.Hash())
		if err != nil {
			// tags on trees or blobs cannot be checked out as snapshots
			return nil
		}
		tags = append(tags, Tag{
			Name:   ref.Name().Short(),
			Commit: commit.Hash,
			When:   commit.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, errs.New(errs.CauseCloneTimeout, fmt.Errorf("walk tags: %w", err))
	}
	if len(tags) == 0 {
		return nil, errs.Newf(errs.CauseMissingTag, "no tags in %s", c.Dir)
	}

	sort.Slice(tags, func(i, j int) bool {
		if !tags[i].When.Equal(tags[j].When) {
			return tags[i].When.Before(tags[j].When)
		}
		return tags[i].Name < tags[j].Name
	})
	latest := tags[len(tags)-1]
	return &latest, nil
}

func (c *Checkout) tagCommit(hash plumbing.Hash) (*object.Commit, error) {
	tagObject, err := c.repo.TagObject(hash)
	switch {
	case err == nil:
		return tagObject.Commit()
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return c.repo.CommitObject(hash)
	default:
		return nil, err
	}
}

// CheckoutTag moves the working tree to the tag's commit, detached.
func (c *Checkout) CheckoutTag(tag *Tag) error {
	worktree, err := c.repo.Worktree()
	if err != nil {
		return errs.New(errs.CauseCloneTimeout, err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: tag.Commit, Force: true}); err != nil {
		return errs.New(errs.CauseCloneTimeout, fmt.Errorf("checkout tags/%s: %w", tag.Name, err))
	}
	return nil
}

// CheckoutLatestTag resolves and checks out the most recent tag and returns its name.
func (c *Checkout) CheckoutLatestTag() (string, error) {
	tag, err := c.LatestTag()
	if err != nil {
		return "", err
	}
	if err := c.CheckoutTag(tag); err != nil {
		return "", err
	}
	return tag.Name, nil
}

// Fetch clones name into dir and checks out its most recent tag, whose name it returns.
func (c *Cloner) Fetch(ctx context.Context, name, dir string) (string, error) {
	checkout, err := c.Clone(ctx, name, dir)
	if err != nil {
		return "", err
	}
	tag, err := checkout.CheckoutLatestTag()
	if err != nil {
		return "", err
	}
	c.logger.Info("checked out %s at tags/%s", name, tag)
	return tag, nil
}
