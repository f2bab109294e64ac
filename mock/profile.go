package mock

import (
	"context"

	"github.com/fwojciec/prospect"
)

var (
	_ prospect.Extractor      = (*Extractor)(nil)
	_ prospect.ProfileReader  = (*ProfileReader)(nil)
	_ prospect.DocumentParser = (*DocumentParser)(nil)
)

// Extractor is a mock implementation of prospect.Extractor.
type Extractor struct {
	ExtractFn func(doc prospect.Document) (*prospect.Profile, error)
}

func (e *Extractor) Extract(doc prospect.Document) (*prospect.Profile, error) {
	return e.ExtractFn(doc)
}

// ProfileReader is a mock implementation of prospect.ProfileReader.
type ProfileReader struct {
	ReadFn func(ctx context.Context, url string) (*prospect.Profile, error)
}

func (r *ProfileReader) Read(ctx context.Context, url string) (*prospect.Profile, error) {
	return r.ReadFn(ctx, url)
}

// DocumentParser is a mock implementation of prospect.DocumentParser.
type DocumentParser struct {
	ParseFn func(html string, url string) (prospect.Document, error)
}

func (p *DocumentParser) Parse(html string, url string) (prospect.Document, error) {
	return p.ParseFn(html, url)
}
