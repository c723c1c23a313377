// Package scrape seeds a playlist from a listener's last.fm recommended
// tracks page. last.fm has no public API for this, so the client logs in
// with a session cookie and scrapes the rendered HTML.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

const userAgent = "kaizen-radio/1.0"

var recommendationURLs = []string{
	"https://www.last.fm/music/+recommended/tracks?page=1",
	"https://www.last.fm/music/+recommended/tracks?page=2",
	"https://www.last.fm/music/+recommended/tracks?page=3",
}

// Client scrapes last.fm's recommended-tracks pages using a session
// cookie, following redirects by hand so the cookie jar stays ours to
// inspect after each hop (mirroring last.fm's own login redirect chain).
type Client struct {
	http    *http.Client
	cookies map[string]string
}

// New returns a Client authenticated with the given last.fm session ID.
func New(sid string) *Client {
	return &Client{
		http: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cookies: map[string]string{"sessionid": sid},
	}
}

func (c *Client) cookieHeader() string {
	parts := make([]string, 0, len(c.cookies))
	for k, v := range c.cookies {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func (c *Client) updateCookies(resp *http.Response) {
	for _, setCookie := range resp.Header.Values("Set-Cookie") {
		kv := strings.SplitN(setCookie, ";", 2)[0]
		if k, v, ok := strings.Cut(kv, "="); ok {
			c.cookies[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
}

func (c *Client) login(ctx context.Context) error {
	url := "https://www.last.fm/login"
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Cookie", c.cookieHeader())

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		c.updateCookies(resp)

		switch {
		case resp.StatusCode >= 300 && resp.StatusCode < 400:
			loc := resp.Header.Get("Location")
			resp.Body.Close()
			next, err := resp.Request.URL.Parse(loc)
			if err != nil {
				return fmt.Errorf("scrape: bad redirect location %q: %w", loc, err)
			}
			url = next.String()
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			resp.Body.Close()
			return nil
		default:
			resp.Body.Close()
			return fmt.Errorf("scrape: login failed with status %d", resp.StatusCode)
		}
	}
}

// ScrapeRecommendations logs in and returns the songs listed across the
// first three pages of recommended tracks.
func (c *Client) ScrapeRecommendations(ctx context.Context) ([]track.SongMetadata, error) {
	if err := c.login(ctx); err != nil {
		return nil, err
	}

	var out []track.SongMetadata
	for _, url := range recommendationURLs {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return out, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Cookie", c.cookieHeader())

		resp, err := c.http.Do(req)
		if err != nil {
			return out, err
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			return out, fmt.Errorf("scrape: parsing %s: %w", url, err)
		}

		doc.Find(".recommended-tracks-item").Each(func(_ int, sel *goquery.Selection) {
			title := strings.TrimSpace(sel.Find(`[itemprop="name"]`).First().Text())
			artist := strings.TrimSpace(sel.Find(`[itemprop="byArtist"]`).First().Text())
			href, _ := sel.Find(".desktop-playlink").First().Attr("href")
			out = append(out, track.SongMetadata{
				Title:      title,
				Artist:     artist,
				SourceHint: strings.TrimSpace(href),
			})
		})
	}
	return out, nil
}
