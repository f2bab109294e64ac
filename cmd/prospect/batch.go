package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/prospect/crawl"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	in := deps.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.File, err)
		}
		defer f.Close()
		in = f
	}
	urls, err := readURLs(in)
	if err != nil {
		return err
	}

	b := *deps.Batch
	if !c.Enrich {
		b.Enricher = nil
	}
	if c.Concurrency > 0 {
		b.Concurrency = c.Concurrency
	}

	enc := json.NewEncoder(deps.Stdout)
	result, err := b.Run(deps.Ctx, urls, func(item crawl.Item) error {
		return enc.Encode(item)
	})
	if result != nil {
		fmt.Fprintf(deps.Stderr, "Processed %d, found %d, failed %d, skipped %d duplicates\n",
			result.Processed, result.Found, result.Failed, result.Skipped)
	}
	return err
}

// readURLs returns the non-blank lines of r, skipping # comments.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URLs: %w", err)
	}
	return urls, nil
}
