package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/cardgen"
	"github.com/abhisek/flashdeck/internal/domain"
	"github.com/abhisek/flashdeck/internal/library"
	"github.com/abhisek/flashdeck/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a card set from text, a file or a web page",
	Example: `  flashdeck generate --file notes.md --theme science
  flashdeck generate --url https://example.com/article --type qa
  flashdeck generate --text "mitochondria produce ATP" --name Cells`,
	RunE: withServices(func(cmd *cobra.Command, args []string, s *services) error {
		ctx := cmd.Context()
		text, _ := cmd.Flags().GetString("text")
		file, _ := cmd.Flags().GetString("file")
		rawURL, _ := cmd.Flags().GetString("url")

		n := 0
		for _, v := range []string{text, file, rawURL} {
			if v != "" {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("exactly one of --text, --file or --url is required")
		}

		meta, err := setMetaFromFlags(cmd)
		if err != nil {
			return err
		}
		if file != "" && source.IsSheet(file) {
			return importSheet(cmd, s, file, meta)
		}

		var content string
		switch {
		case text != "":
			content, err = source.FromText(text)
			meta.SourceType, meta.SourceValue = domain.SourceText, ""
			meta.Name = orDefault(meta.Name, "Untitled")
		case file != "":
			content, err = source.FromFile(file)
			meta.SourceType, meta.SourceValue = domain.SourceFile, file
			meta.Name = orDefault(meta.Name, baseName(file))
		default:
			f := source.NewFetcher(cfg.Source.ReaderURL, cfg.Source.Timeout)
			content, err = f.FetchURL(ctx, rawURL)
			meta.SourceType, meta.SourceValue = domain.SourceURL, rawURL
			meta.Name = orDefault(meta.Name, hostOf(rawURL))
		}
		if err != nil {
			return err
		}

		input, err := generateInputFromFlags(cmd, content)
		if err != nil {
			return err
		}
		gen, err := s.generator(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Generating cards with %s...\n", cfg.LLM.Model)
		drafts, err := gen.Generate(ctx, input)
		if err != nil {
			return err
		}
		set, err := s.lib.CreateSet(ctx, meta, drafts)
		if err != nil {
			return err
		}
		printCreated(set)
		return nil
	}),
}

func generateInputFromFlags(cmd *cobra.Command, content string) (cardgen.Input, error) {
	rawType, _ := cmd.Flags().GetString("type")
	rawLang, _ := cmd.Flags().GetString("lang")
	prompt, _ := cmd.Flags().GetString("prompt")

	ct, err := cardgen.ParseCardType(rawType)
	if err != nil {
		return cardgen.Input{}, err
	}
	lang, err := cardgen.ParseLanguage(rawLang)
	if err != nil {
		return cardgen.Input{}, err
	}
	return cardgen.Input{
		Content:          content,
		CardType:         ct,
		Language:         lang,
		AdditionalPrompt: prompt,
	}, nil
}

// setMetaFromFlags reads the set flags shared by generate and import.
func setMetaFromFlags(cmd *cobra.Command) (library.SetMeta, error) {
	name, _ := cmd.Flags().GetString("name")
	desc, _ := cmd.Flags().GetString("description")
	rawTheme, _ := cmd.Flags().GetString("theme")
	tags, _ := cmd.Flags().GetStringSlice("tags")

	theme, err := parseTheme(rawTheme)
	if err != nil {
		return library.SetMeta{}, err
	}
	return library.SetMeta{Name: name, Description: desc, Theme: theme, Tags: tags}, nil
}

func parseTheme(s string) (domain.Theme, error) {
	if s == "" {
		return "", nil
	}
	for _, t := range domain.Themes {
		if string(t) == strings.ToLower(s) {
			return t, nil
		}
	}
	names := make([]string, len(domain.Themes))
	for i, t := range domain.Themes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("unknown theme %q (want one of %s)", s, strings.Join(names, ", "))
}

func addSetFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Card set name")
	cmd.Flags().String("description", "", "Card set description")
	cmd.Flags().String("theme", "", "Theme: default, science, history, language, programming, math or other")
	cmd.Flags().StringSlice("tags", nil, "Comma-separated tags")
}

func printCreated(set *library.SetWithCards) {
	fmt.Printf("Created %q with %d cards (id %s)\n", set.Name, len(set.Cards), set.ID)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host + strings.TrimSuffix(u.Path, "/")
}

func init() {
	f := generateCmd.Flags()
	f.String("text", "", "Text to turn into cards")
	f.String("file", "", "Path to a .txt or .md file (.xlsx and .csv are imported as-is)")
	f.String("url", "", "Web page to turn into cards")
	f.String("type", "", "Card type: term-definition, qa or image-description")
	f.String("lang", "", "Card language: japanese, english or mixed")
	f.String("prompt", "", "Extra instructions for the generator")
	f.String("provider", "", "LLM provider (overrides llm.provider)")
	f.String("model", "", "LLM model (overrides llm.model)")
	f.String("reader-url", "", "Reader proxy used for --url (overrides source.reader_url)")
	addSetFlags(generateCmd)
}
