package web

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driving/web/components"
	"github.com/ericfisherdev/reviewdeck/internal/application"
)

// Export renders the PR list and every PR detail page in their initial state
// as static HTML under outDir, with links under basePath, and copies the
// static assets. It returns the number of pages written.
func Export(ctx context.Context, prSvc *application.PRService, basePath, outDir string) (int, error) {
	prs, err := prSvc.List(ctx)
	if err != nil {
		return 0, err
	}

	list := components.PRList(toPRListViewModel(prs, basePath, ""))
	if err := writePage(ctx, filepath.Join(outDir, "index.html"), components.Layout(appTitle, basePath, list)); err != nil {
		return 0, err
	}
	pages := 1

	for _, pr := range prs {
		detail, err := prSvc.Detail(ctx, pr.ID)
		if err != nil {
			return pages, err
		}
		s := application.InitialState(detail, prs, basePath)
		page := components.Layout(pr.DisplayName()+" · "+appTitle, basePath, components.PRDetail(toPRDetailViewModel(s)))
		if err := writePage(ctx, filepath.Join(outDir, "pr", pr.ID, "index.html"), page); err != nil {
			return pages, err
		}
		pages++
	}

	staticDir := filepath.Join(outDir, "static")
	if err := os.RemoveAll(staticDir); err != nil {
		return pages, fmt.Errorf("clear %s: %w", staticDir, err)
	}
	if err := os.CopyFS(staticDir, staticAssets()); err != nil {
		return pages, fmt.Errorf("copy static assets: %w", err)
	}

	return pages, nil
}

func writePage(ctx context.Context, path string, c templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.Render(ctx, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
