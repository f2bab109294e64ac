package extract

import (
	"context"

	"github.com/fwojciec/prospect"
)

// Compile-time interface verification.
var _ prospect.ProfileReader = (*Reader)(nil)

// Reader loads profile pages through a Fetcher and extracts them.
type Reader struct {
	Fetcher   prospect.Fetcher
	Parser    prospect.DocumentParser
	Extractor prospect.Extractor
}

// Read fetches url, parses it and extracts the Profile.
func (r *Reader) Read(ctx context.Context, url string) (*prospect.Profile, error) {
	if !prospect.IsProfileURL(url) {
		return nil, prospect.Errorf(prospect.EINVALID, "not a profile page: %s", url)
	}
	html, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := r.Parser.Parse(html, url)
	if err != nil {
		return nil, err
	}
	profile, err := r.Extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	profile.URL = url
	return profile, nil
}
