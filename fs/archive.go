// Package fs archives rendered profile pages on disk so they can be
// extracted again offline.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/prospect"
)

// Ensure ArchivingFetcher implements prospect.Fetcher at compile time.
var _ prospect.Fetcher = (*ArchivingFetcher)(nil)

// ArchivingFetcher saves every page it fetches under a directory as
// <slug>.html, replacing earlier copies of the same profile.
type ArchivingFetcher struct {
	next prospect.Fetcher
	dir  string
}

// NewArchivingFetcher wraps next, saving pages under dir.
func NewArchivingFetcher(next prospect.Fetcher, dir string) *ArchivingFetcher {
	return &ArchivingFetcher{next: next, dir: dir}
}

// Fetch fetches url and archives the page. A page that cannot be archived
// is still returned along with the error.
func (f *ArchivingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if err := f.save(url, html); err != nil {
		return html, fmt.Errorf("archiving %s: %w", url, err)
	}
	return html, nil
}

// Close closes the wrapped fetcher.
func (f *ArchivingFetcher) Close() error {
	return f.next.Close()
}

// Path returns where the page at rawURL is archived.
func (f *ArchivingFetcher) Path(rawURL string) (string, error) {
	name, err := PageName(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.dir, name), nil
}

// save writes to a temporary file first so readers never see a partial page.
func (f *ArchivingFetcher) save(rawURL, html string) error {
	path, err := f.Path(rawURL)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".page-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PageName maps a profile URL to its archive file name.
// Example: https://www.linkedin.com/in/jane-doe/ → jane-doe.html
func PageName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "in" || parts[1] == "" {
		return "", prospect.Errorf(prospect.EINVALID, "not a profile page: %s", rawURL)
	}
	slug := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, parts[1])
	if slug == "." || slug == ".." {
		return "", prospect.Errorf(prospect.EINVALID, "not a profile page: %s", rawURL)
	}
	return slug + ".html", nil
}
