package extract

import (
	"strings"

	"github.com/fwojciec/prospect"
)

// Role is the title and employer of the most recent experience entry.
type Role struct {
	Title    string
	Employer string
	// CompanyURL is the href of the employer's company page link, if any.
	CompanyURL string
}

// ExperienceSection locates the experience section of the page. The page
// marks it with an empty anchor element, in which case the enclosing section
// is returned. Without a marker a section whose heading mentions experience
// is used. It returns nil when the page has no experience section.
func ExperienceSection(doc prospect.Node) prospect.Node {
	if anchor := doc.FindFirst(experienceSelectors...); anchor != nil {
		if strings.TrimSpace(anchor.Text()) != "" && anchor.Has("li, .pvs-entity") {
			return anchor
		}
		if section := anchor.Closest("section"); section != nil {
			return section
		}
		return anchor
	}
	for _, heading := range doc.FindAll(experienceHeadings) {
		if strings.Contains(strings.ToLower(heading.Text()), "experience") {
			if section := heading.Closest("section"); section != nil {
				return section
			}
		}
	}
	return nil
}

// FirstEntry returns the first (most recent) entry of the experience section.
func FirstEntry(section prospect.Node) prospect.Node {
	return section.FindFirst(entrySelectors...)
}

// CurrentRole reads the title and employer from the first experience entry.
// Entries come in two shapes: a single role, where the bold text is the
// title and the next run is the employer, and a chain of roles at one
// employer, where the bold header is the employer and each nested role
// carries its own title.
func CurrentRole(doc prospect.Node) Role {
	section := ExperienceSection(doc)
	if section == nil {
		return Role{}
	}
	entry := FirstEntry(section)
	if entry == nil {
		return Role{}
	}

	var role Role
	if link := entry.FindFirst(companyLinkSelectors...); link != nil {
		role.CompanyURL, _ = link.Attr("href")
	}

	header := boldText(entry)
	if nested := entry.FindFirst(chainRoleSelectors...); nested != nil {
		role.Employer = CleanEmployer(header)
		role.Title = CleanTitle(nested.Text())
	} else {
		role.Title = CleanTitle(header)
		role.Employer = employerRun(entry, header)
		if role.Employer == "" {
			role.Employer = linkedEmployer(entry)
		}
	}
	return disambiguate(role)
}

func boldText(entry prospect.Node) string {
	if n := entry.FindFirst(boldSelectors...); n != nil {
		return Dedupe(n.Text())
	}
	return ""
}

// employerRun returns the first visible text run of the entry after the
// title that is neither a period nor page chrome. Runs nested under
// sub-components belong to descriptions and nested roles and are skipped.
func employerRun(entry prospect.Node, title string) string {
	for _, run := range entry.FindAll(runSelector) {
		if run.Closest(subComponents) != nil {
			continue
		}
		text := Dedupe(run.Text())
		if text == "" || text == title {
			continue
		}
		cleaned := CleanEmployer(text)
		if cleaned == "" {
			continue
		}
		switch Classify(cleaned) {
		case ClassPeriod, ClassNoise:
			continue
		}
		return cleaned
	}
	return ""
}

// linkedEmployer reads the employer from a company page link, using the
// link text or the alt text of its logo.
func linkedEmployer(entry prospect.Node) string {
	link := entry.FindFirst(companyLinkSelectors...)
	if link == nil {
		return ""
	}
	if text := CleanEmployer(link.Text()); text != "" && Classify(text) != ClassNoise {
		return text
	}
	if img := link.FindFirst("img"); img != nil {
		if alt, ok := img.Attr("alt"); ok {
			return CleanEmployer(alt)
		}
	}
	return ""
}

// disambiguate repairs roles whose parts were read in the wrong order or
// where only one combined value was found.
func disambiguate(role Role) Role {
	switch {
	case role.Title != "" && role.Employer != "":
		if Classify(role.Title) == ClassCompany && Classify(role.Employer) == ClassTitle {
			role.Title, role.Employer = role.Employer, role.Title
		}
	case role.Title != "":
		if title, employer, ok := SplitCombined(role.Title); ok {
			role.Title, role.Employer = title, employer
		} else if Classify(role.Title) == ClassCompany {
			role.Title, role.Employer = "", role.Title
		}
	case role.Employer != "":
		if Classify(role.Employer) == ClassTitle {
			role.Title, role.Employer = role.Employer, ""
		}
	}
	return role
}
