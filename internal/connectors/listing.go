package connectors

import (
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"debatetxt/internal/pipeline"
)

// Listing is one transcript linked from a directory index page.
type Listing struct {
	Name string
	URL  string
}

// ParseIndex collects links to date-named XML files from an HTML index page,
// resolved against base and sorted by name. Duplicate names keep the first
// link.
func ParseIndex(base *url.URL, r io.Reader) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := []Listing{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		name := path.Base(ref.Path)
		if !strings.EqualFold(path.Ext(name), ".xml") {
			return
		}
		if _, err := pipeline.ParseDate(name); err != nil {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, Listing{Name: name, URL: base.ResolveReference(ref).String()})
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FilterListings keeps names starting with prefix, then at most limit of them.
func FilterListings(listings []Listing, prefix string, limit int) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if strings.HasPrefix(l.Name, prefix) {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
