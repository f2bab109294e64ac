package main

import "fmt"

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Addr
	}
	fmt.Fprintf(deps.Stderr, "Serving on %s (POST /message, GET /metrics)\n", addr)
	return deps.Server.ListenAndServe(deps.Ctx, addr)
}
