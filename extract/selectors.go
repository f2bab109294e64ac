package extract

// Selector lists are ordered by how reliable they have proven on the
// profile page layouts seen so far; the first match wins.

var nameSelectors = []string{
	`h1.text-heading-xlarge.inline.t-24.v-align-middle.break-words`,
	`h1.text-heading-xlarge`,
	`.pv-text-details__left-panel h1`,
	`.ph5 h1`,
	`h1.break-words`,
	`.artdeco-entity-lockup__title h1`,
	`.pv-top-card--list h1`,
	`.pv-top-card .pv-entity__title h1`,
	`.text-heading-xlarge`,
	`[data-anonymize="person-name"]`,
	`.profile-header h1`,
	`.profile-topcard h1`,
}

var experienceSelectors = []string{
	`#experience`,
	`[data-section="experience"]`,
	`.experience-section`,
	`.pv-profile-section--experience`,
	`[id*="experience"]`,
}

// experienceHeadings are headings whose text names the experience section
// when no semantic marker is present.
const experienceHeadings = `section h2, section h3, section .pvs-header__title`

var entrySelectors = []string{
	`.pvs-list__item--line-separated, .pvs-entity, .experience-item, li[data-occludable-job-id], .artdeco-list__item, .pvs-list__item, li.pvs-list__paged-list-item, .pv-entity__position-group-pager li`,
	`li, .profile-section-card, [data-entity-hovercard-id]`,
}

// chainRoleSelectors find the title of the first nested role of an entry
// that groups several roles under one employer.
var chainRoleSelectors = []string{
	`.pvs-entity__sub-components .pvs-entity .t-bold span[aria-hidden="true"]`,
	`.pvs-entity__sub-components li .t-bold span[aria-hidden="true"]`,
	`.pvs-entity__sub-components li .t-bold`,
	`.pv-entity__position-group-role-item h3`,
	`.experience-group-position h3`,
}

// subComponents wraps nested content of an entry (roles, descriptions, skills).
const subComponents = `.pvs-entity__sub-components, .pv-entity__position-group-role-item, .experience-group-position`

var boldSelectors = []string{
	`.t-bold span[aria-hidden="true"]`,
	`.t-bold`,
	`h3`,
	`strong`,
}

// runSelector matches the visible text runs of an entry. The page renders
// each run twice: once visibly (aria-hidden) and once for screen readers.
const runSelector = `span[aria-hidden="true"]`

var companyLinkSelectors = []string{
	`a[href*="linkedin.com/company"]`,
	`a[href^="/company/"]`,
	`a[data-field*="company"]`,
	`.pvs-entity__caption-wrapper a`,
	`.pvs-entity__summary-info a`,
}

var headlineSelectors = []string{
	`.pv-text-details__left-panel .text-body-medium`,
	`h1 + div .text-body-medium`,
	`.text-body-medium.break-words`,
	`.pv-top-card .text-body-medium`,
	`[data-generated-suggestion-target] .text-body-medium`,
}

var topCardEmployerSelectors = []string{
	`button[aria-label^="Current company"]`,
	`.pv-text-details__right-panel .inline-show-more-text`,
	`.pv-entity__secondary-title`,
	`a[data-control-name="background_details_company"]`,
	`.experience-item__subtitle a`,
}

var openToWorkSelectors = []string{
	`.pv-open-to-card`,
	`.open-to-work`,
	`[data-test-id="open-to-work"]`,
}

var imageSelectors = []string{
	`img[data-anonymize="headshot-photo"]`,
	`.pv-top-card__photo img`,
	`.profile-photo-edit__preview img`,
	`button[aria-label*="photo"] img`,
	`.pv-top-card-profile-picture img`,
}

var locationSelectors = []string{
	`.text-body-small.inline.t-black--light.break-words`,
	`.pv-text-details__left-panel .text-body-small`,
	`span.text-body-small.inline.t-black--light.break-words`,
}

// readySelectors signal that the page has populated enough to extract.
var readySelectors = []string{
	`h1.text-heading-xlarge, h1[data-anonymize="person-name"], .text-heading-xlarge, .profile-header h1`,
	`.pv-top-card, .profile-topcard, .artdeco-entity-lockup`,
	`#experience, [data-section="experience"]`,
}
