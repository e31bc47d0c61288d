// internal/domain/models/sitesettings.go
package models

// DefaultSiteName is shown in the sidebar and page titles.
const DefaultSiteName = "Dettol Hygiene Quest"

// ProgramTagline appears under the site name on the login page.
const ProgramTagline = "Track progress, access resources, and support better hygiene practices in Ugandan schools."
