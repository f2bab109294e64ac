package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/config"
	"github.com/fwojciec/prospect/crawl"
	phttp "github.com/fwojciec/prospect/http"
)

// KeyService checks and stores lookup API keys.
type KeyService interface {
	prospect.AccountChecker
	SaveCredential(ctx context.Context, apiKey string) (*prospect.Account, error)
}

// Dependencies holds all services and configuration for command execution.
// Main fills in only what the chosen command needs.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.Config

	Reader      prospect.ProfileReader
	Parser      prospect.DocumentParser
	Extractor   prospect.Extractor
	Enricher    prospect.Enricher
	Keys        KeyService
	Credentials prospect.CredentialStore
	Server      *phttp.Server
	Batch       *crawl.Batch
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose        bool   `short:"v" help:"Log debug output to stderr"`
	Static         bool   `help:"Load pages over plain HTTP instead of a browser"`
	BrowserProfile string `name:"browser-profile" type:"path" help:"Chrome user data directory with a signed-in session"`
	SavePages      string `name:"save-pages" type:"path" help:"Save each loaded page as <slug>.html in this directory"`

	Extract ExtractCmd `cmd:"" help:"Extract name, title and employer from a profile page"`
	Lookup  LookupCmd  `cmd:"" help:"Find a contact email for a profile"`
	Key     KeyCmd     `cmd:"" help:"Manage the lookup API key"`
	Serve   ServeCmd   `cmd:"" help:"Serve the message protocol over HTTP"`
	Batch   BatchCmd   `cmd:"" help:"Extract and look up many profiles, one JSON line each"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `arg:"" help:"Profile page URL"`
	HTML string `name:"html" type:"existingfile" help:"Read the page from a saved HTML file instead of loading it"`
}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	URL     string `arg:"" optional:"" help:"Profile page URL"`
	Name    string `help:"Full name, when not reading a page"`
	Company string `help:"Employer, when not reading a page"`
	Domain  string `help:"Employer domain, when not reading a page"`
}

// KeyCmd groups the "key" subcommands.
type KeyCmd struct {
	Set   KeySetCmd   `cmd:"" help:"Check and store the lookup API key"`
	Show  KeyShowCmd  `cmd:"" help:"Show the stored key, redacted"`
	Test  KeyTestCmd  `cmd:"" help:"Check a key and show plan and quota usage"`
	Clear KeyClearCmd `cmd:"" help:"Remove the stored key"`
}

// KeySetCmd is the "key set" subcommand.
type KeySetCmd struct {
	Key string `arg:"" help:"Lookup API key"`
}

// KeyShowCmd is the "key show" subcommand.
type KeyShowCmd struct{}

// KeyTestCmd is the "key test" subcommand.
type KeyTestCmd struct {
	Key string `arg:"" optional:"" help:"Key to check; defaults to the stored key"`
}

// KeyClearCmd is the "key clear" subcommand.
type KeyClearCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config)"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File        string `arg:"" optional:"" default:"-" help:"File with one profile URL per line, or - for stdin"`
	Enrich      bool   `default:"true" negatable:"" help:"Look up a contact for each profile"`
	Concurrency int    `short:"c" help:"Profiles processed at once (default from config)"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
