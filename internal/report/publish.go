package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qareport/internal/confluence"
)

// WikiClient is the slice of the Confluence API the publisher needs.
// Implemented by *confluence.Client.
type WikiClient interface {
	FindPageByTitle(ctx context.Context, spaceKey, title string) (*confluence.Page, error)
	CreatePage(ctx context.Context, spaceKey, title, body, ancestorID string) (*confluence.Page, error)
	UpdatePage(ctx context.Context, pageID, title, body string, version int) (*confluence.Page, error)
}

// Publisher writes the rendered report to the wiki, creating the page on the
// first run and bumping the version on every later one.
type Publisher struct {
	Wiki WikiClient

	// SpaceKey overrides the template page's space when set.
	SpaceKey string
	// ParentPageID overrides the template page's parent when set.
	ParentPageID string
}

// PageResult describes the page the report ended up on.
type PageResult struct {
	ID      string
	Title   string
	Version int
	Created bool
}

// Publish creates or updates the report page for the sprint. Updates always
// submit the existing version plus one.
func (p *Publisher) Publish(ctx context.Context, html, sprintLabel string, template *confluence.Page) (*PageResult, error) {
	title := PageTitle(template.Title, sprintLabel)

	space := p.SpaceKey
	if space == "" {
		space = template.SpaceKey()
	}

	existing, err := p.Wiki.FindPageByTitle(ctx, space, title)
	if err != nil {
		return nil, fmt.Errorf("failed to search for page %q: %w", title, err)
	}

	if existing == nil {
		parent := p.ParentPageID
		if parent == "" {
			parent = template.ParentID()
		}
		created, err := p.Wiki.CreatePage(ctx, space, title, html, parent)
		if err != nil {
			return nil, fmt.Errorf("failed to create page %q: %w", title, err)
		}
		return &PageResult{ID: created.ID, Title: title, Version: created.VersionNumber(), Created: true}, nil
	}

	updated, err := p.Wiki.UpdatePage(ctx, existing.ID, title, html, existing.VersionNumber()+1)
	if err != nil {
		return nil, fmt.Errorf("failed to update page %q: %w", title, err)
	}
	return &PageResult{ID: updated.ID, Title: title, Version: updated.VersionNumber()}, nil
}

// PageTitle derives the report page title from the template's title: a
// {sprint} placeholder is substituted, otherwise the label is appended.
func PageTitle(templateTitle, sprintLabel string) string {
	title := strings.TrimSpace(templateTitle)
	label := strings.TrimSpace(sprintLabel)
	if strings.Contains(title, "{sprint}") {
		return strings.ReplaceAll(title, "{sprint}", label)
	}
	return fmt.Sprintf("%s - %s", title, label)
}

// WriteFileIfChanged writes content to path unless the file already holds
// byte-identical content. Returns whether a write happened.
func WriteFileIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
