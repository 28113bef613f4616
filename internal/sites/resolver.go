package sites

import (
	"net/http"
	"strings"
)

// Site is a localized front end of the host CMS.
type Site struct {
	Handle string `yaml:"handle" json:"handle"`
	URL    string `yaml:"url" json:"url"`
	Locale string `yaml:"locale" json:"locale"`
}

// Resolver guesses which site a request was submitted from.
type Resolver struct {
	sites    []Site
	fallback Site
}

// NewResolver returns a resolver over sites. The first site is the default;
// with no sites a "default" site is used.
func NewResolver(sites ...Site) *Resolver {
	r := &Resolver{fallback: Site{Handle: "default", Locale: "en"}}
	for _, site := range sites {
		site.Handle = strings.TrimSpace(site.Handle)
		if site.Handle == "" {
			continue
		}
		r.sites = append(r.sites, site)
	}
	if len(r.sites) > 0 {
		r.fallback = r.sites[0]
	}
	return r
}

// Default returns the fallback site.
func (r *Resolver) Default() Site {
	return r.fallback
}

// Find returns the site with handle.
func (r *Resolver) Find(handle string) (Site, bool) {
	handle = strings.TrimSpace(handle)
	for _, site := range r.sites {
		if site.Handle == handle {
			return site, true
		}
	}
	return Site{}, false
}

// Guess picks the site named by the "site" form value, then the site whose
// URL appears in the request URL, then in the Referer header, and finally
// the default site.
func (r *Resolver) Guess(req *http.Request) Site {
	if req == nil {
		return r.fallback
	}
	if handle := req.FormValue("site"); handle != "" {
		if site, ok := r.Find(handle); ok {
			return site
		}
	}
	if site, ok := r.match(requestURL(req)); ok {
		return site
	}
	if site, ok := r.match(req.Header.Get("Referer")); ok {
		return site
	}
	return r.fallback
}

// match prefers the longest matching site URL so "/fr" wins over "/".
func (r *Resolver) match(target string) (Site, bool) {
	if target == "" {
		return Site{}, false
	}
	var best Site
	found := false
	for _, site := range r.sites {
		url := strings.TrimSpace(site.URL)
		if url == "" || !strings.Contains(target, url) {
			continue
		}
		if !found || len(url) > len(best.URL) {
			best = site
			found = true
		}
	}
	return best, found
}

func requestURL(req *http.Request) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if forwarded := req.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + req.Host + req.URL.RequestURI()
}
