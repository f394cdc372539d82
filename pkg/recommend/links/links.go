package links

import (
	"net/url"

	"smart-product-be/pkg/recommend/state"
)

// Site is an e-commerce store whose search page accepts the query appended to BaseURL.
type Site struct {
	Name    string
	BaseURL string
}

// DefaultSites is the reference deployment's store list.
var DefaultSites = []Site{
	{Name: "Hepsiburada", BaseURL: "https://www.hepsiburada.com/ara?q="},
	{Name: "Trendyol", BaseURL: "https://www.trendyol.com/sr?q="},
	{Name: "Amazon", BaseURL: "https://www.amazon.com.tr/s?k="},
	{Name: "N11", BaseURL: "https://www.n11.com/arama?q="},
	{Name: "Çiçeksepeti", BaseURL: "https://www.ciceksepeti.com/arama?query="},
}

// BuildSearchLinks returns one search URL per site, in site order.
func BuildSearchLinks(productName string, sites []Site) []state.SiteLink {
	query := url.QueryEscape(productName)

	out := make([]state.SiteLink, 0, len(sites))
	for _, s := range sites {
		out = append(out, state.SiteLink{Site: s.Name, URL: s.BaseURL + query})
	}
	return out
}
