// Package countries provides the country list shown on the first wizard step.
package countries

import (
	"context"
	"sort"

	"leasing-wizard/internal/models"
)

// Source returns the selectable countries. Implementations may block on I/O.
type Source interface {
	List(ctx context.Context) ([]models.Country, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.Country, error)

func (f SourceFunc) List(ctx context.Context) ([]models.Country, error) {
	return f(ctx)
}

// StaticSource serves a fixed list, for tests and offline use.
type StaticSource []models.Country

func (s StaticSource) List(context.Context) ([]models.Country, error) {
	out := make([]models.Country, len(s))
	copy(out, s)
	return out, nil
}

// DisplayName renders a country the way the select input shows it.
func DisplayName(c models.Country) string {
	if c.Flag == "" {
		return c.Name.Common
	}
	return c.Flag + " " + c.Name.Common
}

// SortByName orders countries by common name in place.
func SortByName(cs []models.Country) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Name.Common < cs[j].Name.Common
	})
}

// Names returns the common names in list order.
func Names(cs []models.Country) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name.Common
	}
	return out
}

// Europe is a small built-in list used when no network source is configured.
var Europe = StaticSource{
	{Name: models.CountryName{Common: "Austria"}, CCA2: "AT", Flag: "🇦🇹", Region: "Europe"},
	{Name: models.CountryName{Common: "Belgium"}, CCA2: "BE", Flag: "🇧🇪", Region: "Europe"},
	{Name: models.CountryName{Common: "France"}, CCA2: "FR", Flag: "🇫🇷", Region: "Europe"},
	{Name: models.CountryName{Common: "Germany"}, CCA2: "DE", Flag: "🇩🇪", Region: "Europe"},
	{Name: models.CountryName{Common: "Italy"}, CCA2: "IT", Flag: "🇮🇹", Region: "Europe"},
	{Name: models.CountryName{Common: "Netherlands"}, CCA2: "NL", Flag: "🇳🇱", Region: "Europe"},
	{Name: models.CountryName{Common: "Poland"}, CCA2: "PL", Flag: "🇵🇱", Region: "Europe"},
	{Name: models.CountryName{Common: "Spain"}, CCA2: "ES", Flag: "🇪🇸", Region: "Europe"},
}
