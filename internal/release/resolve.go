package release

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// releaseDirPattern matches release train directory links (e.g. "2025-12/").
var releaseDirPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Resolver discovers the newest release artifact URL by walking the
// upstream download directory listing. This is a convenience capability:
// the pipeline works with an explicitly supplied URL and never requires
// discovery to succeed.
type Resolver struct {
	client  *http.Client
	baseURL string
	product string
	variant string
	suffix  string
}

// NewResolver creates a resolver for the given listing base URL.
// The variant and suffix select which artifact link inside the release
// build directory is wanted (e.g. "cpp", "linux-gtk-x86_64.tar.gz").
func NewResolver(baseURL, product, variant, suffix string) *Resolver {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Resolver{
		client:  &http.Client{Timeout: 2 * time.Minute},
		baseURL: baseURL,
		product: product,
		variant: variant,
		suffix:  suffix,
	}
}

// LatestReleaseURL returns the download URL of the newest R (release)
// build artifact found in the listing.
func (r *Resolver) LatestReleaseURL(ctx context.Context) (string, error) {
	latest, err := r.latestReleaseDir(ctx)
	if err != nil {
		return "", err
	}

	buildURL := r.baseURL + latest + "/R/"
	links, err := r.fetchLinks(ctx, buildURL)
	if err != nil {
		return "", fmt.Errorf("list release build %s: %w", latest, err)
	}

	// Suffix must terminate the name: the checksum sidecar links
	// (".tar.gz.sha512") contain the suffix as a substring too.
	want := r.product + "-" + r.variant
	for _, href := range links {
		if strings.Contains(href, want) && strings.HasSuffix(href, r.suffix) {
			return buildURL + href, nil
		}
	}

	return "", fmt.Errorf("no %s artifact with suffix %s in release %s", want, r.suffix, latest)
}

// latestReleaseDir finds the lexicographically newest YYYY-MM directory
// in the base listing. Lexicographic order is chronological for YYYY-MM.
func (r *Resolver) latestReleaseDir(ctx context.Context) (string, error) {
	links, err := r.fetchLinks(ctx, r.baseURL)
	if err != nil {
		return "", fmt.Errorf("list releases: %w", err)
	}

	var dirs []string
	for _, href := range links {
		trimmed := strings.Trim(href, "/")
		if releaseDirPattern.MatchString(trimmed) {
			dirs = append(dirs, trimmed)
		}
	}

	if len(dirs) == 0 {
		return "", fmt.Errorf("no release directories found at %s", r.baseURL)
	}

	sort.Strings(dirs)
	return dirs[len(dirs)-1], nil
}

// fetchLinks fetches a directory listing page and returns all anchor
// href values in document order.
func (r *Resolver) fetchLinks(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}
