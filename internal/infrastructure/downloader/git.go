// Package downloader implements ports.Downloader: a git clone adapter
// built on go-git's PlainCloneContext, and a market adapter that resolves a
// catalog entry to a concrete method before recursing back into the git
// adapter.
package downloader

import (
	"fmt"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// GitDownloader shallow-clones the requested repository to
// <download_dir>/<uuid>, mirroring downloaders.py GitDownloader.
type GitDownloader struct {
	downloadDir string
	logger      ports.Logger
}

func NewGitDownloader(downloadDir string, logger ports.Logger) *GitDownloader {
	return &GitDownloader{downloadDir: downloadDir, logger: logger}
}

func (d *GitDownloader) Download(ctx *installctx.Context) error {
	dest := filepath.Join(d.downloadDir, ctx.UUID)

	opts := &git.CloneOptions{
		URL:   ctx.GitOptions.URL,
		Depth: 1,
	}
	if ctx.GitOptions.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ctx.GitOptions.Ref)
		opts.SingleBranch = true
	}

	if ctx.Logger() != nil {
		ctx.Logger().Info(ctx.Ctx(), "cloning plugin source", "url", ctx.GitOptions.URL, "ref", ctx.GitOptions.Ref, "dest", dest)
	}

	if _, err := git.PlainCloneContext(ctx.Ctx(), dest, false, opts); err != nil {
		return fmt.Errorf("cloning %s: %w", ctx.GitOptions.URL, err)
	}

	if ctx.GitOptions.Subdirectory != "" {
		dest = filepath.Join(dest, ctx.GitOptions.Subdirectory)
	}
	ctx.DownloadPath = dest
	return nil
}

var _ ports.Downloader = (*GitDownloader)(nil)
