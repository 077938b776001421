package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osobist/wikisync/internal/client/models"
	"github.com/osobist/wikisync/internal/client/services"
)

// Fetch downloads an article into a local file and records its fingerprint,
// establishing the baseline later publishes are compared against.
//
// Usage: fetch <pageId> <file>
func (a *App) Fetch(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: fetch <pageId> <file>")
	}
	pageID, file := args[0], args[1]

	article, err := a.sync.Fetch(ctx, file, pageID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(file, []byte(article.Source), 0o644); err != nil {
		return err
	}

	fmt.Printf("Fetched %s (%s) into %s.\n", article.PageID, article.Title, file)
	return nil
}

// Publish uploads a local file as a wiki article. The page id and title
// default to the values recorded at the last sync of this file; the user can
// override both and attach an edit comment. The attempt goes through the
// divergence check and, when the page does not exist yet, the create path.
//
// Usage: publish <file>
func (a *App) Publish(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: publish <file>")
	}
	file := args[0]

	source, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	local, err := a.meta.Load(ctx, file)
	if err != nil {
		return err
	}

	pageID, err := a.promptWithDefault("Page id", local.PageID)
	if err != nil {
		return err
	}
	defaultTitle := local.Title
	if defaultTitle == "" {
		defaultTitle = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	title, err := a.promptWithDefault("Title", defaultTitle)
	if err != nil {
		return err
	}
	comment, err := getSimpleText(a.reader, "Edit comment (optional)", os.Stdout)
	if err != nil {
		return err
	}

	result, err := a.sync.Publish(ctx, services.PublishRequest{
		DocID:   file,
		PageID:  pageID,
		Title:   title,
		Source:  string(source),
		Comment: comment,
	})
	if err != nil {
		return err
	}

	if result.Created {
		fmt.Printf("Created %s (%s).\n", result.Article.PageID, result.Article.Title)
	} else {
		fmt.Printf("Published %s (%s).\n", result.Article.PageID, result.Article.Title)
	}
	return nil
}

// promptWithDefault asks for a value, keeping def when the user enters
// nothing.
func (a *App) promptWithDefault(label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	value, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}

// resolveConflict is the interactive decision point entered when the server
// copy has changed since the last sync of this file. Anything but an explicit
// "yes" keeps the server copy intact.
func (a *App) resolveConflict(ctx context.Context, local models.ArticleMeta, baseline *models.Article) (services.Decision, error) {
	fmt.Printf("The server copy of %s (%s) has changed since your last sync.\n", baseline.PageID, baseline.Title)
	answer, err := getSimpleText(a.reader, "Overwrite the server copy? (yes/no)", os.Stdout)
	if err != nil {
		return services.DecisionCancel, err
	}
	if strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "y") {
		return services.DecisionProceed, nil
	}
	return services.DecisionCancel, nil
}
