// internal/models/country.go
package models

// Country mirrors the restcountries v3.1 record. Only Name.Common and Flag
// are used by the wizard; the rest is carried for display and caching.
type Country struct {
	Name       CountryName       `json:"name"`
	CCA2       string            `json:"cca2,omitempty"`
	CCA3       string            `json:"cca3,omitempty"`
	Flag       string            `json:"flag,omitempty"`
	Flags      CountryFlags      `json:"flags"`
	Region     string            `json:"region,omitempty"`
	Subregion  string            `json:"subregion,omitempty"`
	Population int64             `json:"population,omitempty"`
	Languages  map[string]string `json:"languages,omitempty"`
}

type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official,omitempty"`
}

type CountryFlags struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}
