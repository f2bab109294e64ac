// Package prospect finds contact addresses for people from their profile pages.
// It renders a profile page, extracts the person's name, current title and
// employer with best-effort heuristics, and queries a contact-lookup API with
// a ladder of progressively weaker search strategies.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package prospect
