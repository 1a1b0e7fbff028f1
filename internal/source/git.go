package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// CloneRepo clones the repository at url into dir, or pulls the latest
// changes if dir already holds a clone.
func CloneRepo(ctx context.Context, url, dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	_, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("cloning repository", "url", url, "dir", dir)
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:   url,
			Depth: 1,
		})
		if err != nil {
			return fmt.Errorf("clone %s: %w", url, err)
		}
	case err == nil:
		logger.Info("pulling repository", "dir", dir)
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return fmt.Errorf("open repository at %s: %w", dir, err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("worktree for %s: %w", dir, err)
		}
		err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("pull %s: %w", dir, err)
		}
	default:
		return fmt.Errorf("check %s: %w", dir, err)
	}
	return nil
}

// MarkdownFiles lists the markdown files under dir in lexical order,
// skipping the .git directory.
func MarkdownFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
