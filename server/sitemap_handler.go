package server

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"
)

// Static pages always present in the sitemap.
var sitemapStaticPages = []string{
	"/",
	"/schools",
	"/teachers",
	"/fees",
	"/blog",
	"/login",
	"/register",
}

const sitemapFetchTimeout = 5 * time.Second

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// SitemapHandler renders the sitemap from the static page list plus the
// published school and blog-post URLs fetched from the backend. A backend
// failure degrades to the static entries only.
func (s *Server) SitemapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), sitemapFetchTimeout)
		defer cancel()

		paths := append([]string{}, sitemapStaticPages...)

		var schools struct {
			Results []struct {
				ID int `json:"id"`
			} `json:"results"`
		}
		if err := s.fetchBackendJSON(ctx, "/api/schools?page=1&page_size=1000", &schools); err != nil {
			s.log.Warn().Err(err).Msg("sitemap: school fetch failed, serving static entries")
		}
		for _, school := range schools.Results {
			paths = append(paths, fmt.Sprintf("/schools/%d", school.ID))
		}

		var posts struct {
			Results []struct {
				Slug string `json:"slug"`
			} `json:"results"`
		}
		if err := s.fetchBackendJSON(ctx, "/api/posts?page=1&page_size=1000", &posts); err != nil {
			s.log.Warn().Err(err).Msg("sitemap: post fetch failed, serving static entries")
		}
		for _, post := range posts.Results {
			paths = append(paths, "/blog/"+post.Slug)
		}

		urlSet := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
		for _, p := range paths {
			urlSet.URLs = append(urlSet.URLs, sitemapURL{Loc: s.siteURL(p)})
		}

		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, xml.Header)
		encoder := xml.NewEncoder(w)
		encoder.Indent("", "  ")
		if err := encoder.Encode(urlSet); err != nil {
			s.log.Warn().Err(err).Msg("sitemap: encoding failed")
		}
	}
}

// fetchBackendJSON issues a plain GET against the backend origin and
// decodes the JSON response. Non-2xx statuses are errors.
func (s *Server) fetchBackendJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.backendURL(path, ""), nil)
	if err != nil {
		return err
	}
	resp, err := s.proxyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &backendStatusError{status: resp.StatusCode, path: path}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// backendStatusError distinguishes a backend non-2xx from a transport
// failure for callers of fetchBackendJSON.
type backendStatusError struct {
	status int
	path   string
}

func (e *backendStatusError) Error() string {
	return fmt.Sprintf("backend returned %d for %s", e.status, e.path)
}
