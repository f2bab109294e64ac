package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/prospect"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	profile, err := c.profile(deps)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, profile)
}

func (c *ExtractCmd) profile(deps *Dependencies) (*prospect.Profile, error) {
	if c.HTML == "" {
		return deps.Reader.Read(deps.Ctx, c.URL)
	}

	b, err := os.ReadFile(c.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.HTML, err)
	}
	doc, err := deps.Parser.Parse(string(b), c.URL)
	if err != nil {
		return nil, err
	}
	profile, err := deps.Extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	profile.URL = c.URL
	return profile, nil
}
