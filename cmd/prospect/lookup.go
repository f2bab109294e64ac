package main

import (
	"fmt"

	"github.com/fwojciec/prospect"
	phttp "github.com/fwojciec/prospect/http"
)

// LookupResult is the lookup command's output.
type LookupResult struct {
	Profile *prospect.Profile `json:"profile"`
	Contact *prospect.Contact `json:"contact"`
}

// Run executes the lookup command.
func (c *LookupCmd) Run(deps *Dependencies) error {
	profile, err := c.profile(deps)
	if err != nil {
		return err
	}

	contact, err := deps.Enricher.Enrich(deps.Ctx, profile)
	if err != nil {
		return err
	}
	if !contact.Found() {
		fmt.Fprintln(deps.Stderr, phttp.NotFoundMessage(contact.Query))
	}
	return writeJSON(deps.Stdout, LookupResult{Profile: profile, Contact: contact})
}

func (c *LookupCmd) profile(deps *Dependencies) (*prospect.Profile, error) {
	if c.URL != "" {
		return deps.Reader.Read(deps.Ctx, c.URL)
	}
	if c.Name == "" {
		return nil, prospect.Errorf(prospect.EINVALID, "Pass a profile URL or --name with --company or --domain.")
	}
	return &prospect.Profile{
		FullName: c.Name,
		Employer: c.Company,
		Domain:   c.Domain,
	}, nil
}
