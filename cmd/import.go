package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/library"
	"github.com/abhisek/flashdeck/internal/source"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import cards from spreadsheets, markdown or git repositories",
}

var importSheetCmd = &cobra.Command{
	Use:   "sheet <file.xlsx|file.csv>",
	Short: "Import cards from the first two columns of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		meta, err := setMetaFromFlags(cmd)
		if err != nil {
			return err
		}
		return importSheet(cmd, s, args[0], meta)
	}),
}

var importMarkdownCmd = &cobra.Command{
	Use:   "markdown <file.md>",
	Short: "Import cards written as markdown headings and bodies",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		meta, err := setMetaFromFlags(cmd)
		if err != nil {
			return err
		}
		drafts, err := library.ParseMarkdownFile(args[0])
		if err != nil {
			return err
		}
		meta.SourceType, meta.SourceValue = domain.SourceMarkdown, args[0]
		meta.Name = orDefault(meta.Name, baseName(args[0]))

		set, err := s.lib.CreateSet(cmd.Context(), meta, drafts)
		if err != nil {
			return err
		}
		printCreated(set)
		return nil
	}),
}

var importGitCmd = &cobra.Command{
	Use:   "git <repo-url>",
	Short: "Import every markdown file of a git repository as one card set",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		meta, err := setMetaFromFlags(cmd)
		if err != nil {
			return err
		}
		url := args[0]

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			tmp, err := os.MkdirTemp("", "flashdeck-git-")
			if err != nil {
				return fmt.Errorf("create temp dir: %w", err)
			}
			defer os.RemoveAll(tmp)
			dir = filepath.Join(tmp, "repo")
		}
		if err := source.CloneRepo(ctx, url, dir, logger); err != nil {
			return err
		}

		files, err := source.MarkdownFiles(dir)
		if err != nil {
			return err
		}
		var drafts []domain.CardDraft
		for _, f := range files {
			d, err := library.ParseMarkdownFile(f)
			if err != nil {
				return err
			}
			logger.Debug("parsed markdown", "file", f, "cards", len(d))
			drafts = append(drafts, d...)
		}

		meta.SourceType, meta.SourceValue = domain.SourceGit, url
		meta.Name = orDefault(meta.Name, strings.TrimSuffix(baseName(url), ".git"))
		set, err := s.lib.CreateSet(ctx, meta, drafts)
		if err != nil {
			return fmt.Errorf("import %d markdown files: %w", len(files), err)
		}
		printCreated(set)
		return nil
	}),
}

func importSheet(cmd *cobra.Command, s *services, path string, meta library.SetMeta) error {
	drafts, err := library.ImportSheet(path)
	if err != nil {
		return err
	}
	meta.SourceType, meta.SourceValue = domain.SourceSheet, path
	meta.Name = orDefault(meta.Name, baseName(path))

	set, err := s.lib.CreateSet(cmd.Context(), meta, drafts)
	if err != nil {
		return err
	}
	printCreated(set)
	return nil
}

func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

func init() {
	importGitCmd.Flags().String("dir", "", "Keep the clone in this directory and pull on later imports")

	for _, c := range []*cobra.Command{importSheetCmd, importMarkdownCmd, importGitCmd} {
		addSetFlags(c)
		importCmd.AddCommand(c)
	}
}

var exportCmd = &cobra.Command{
	Use:   "export <set-id> <file.xlsx>",
	Short: "Export a card set with its progress to a spreadsheet",
	Args:  cobra.ExactArgs(2),
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		set, err := s.lib.Get(ctx, args[0])
		if err != nil {
			return err
		}
		progress, err := s.store.ProgressRepo().ListByCardSet(ctx, set.ID)
		if err != nil {
			return err
		}
		if err := library.ExportSheet(set, progress, args[1]); err != nil {
			return err
		}
		fmt.Printf("Exported %d cards to %s\n", len(set.Cards), args[1])
		return nil
	}),
}
