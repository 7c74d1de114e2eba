package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
)

// OutputFile is written into the knowledge directory after each run
const OutputFile = "scraped_property_listings.json"

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	maxPageBytes   = 10 << 20
	requestTimeout = 30 * time.Second
)

// ErrNoPageData means the page carried no __NEXT_DATA__ script
var ErrNoPageData = errors.New("__NEXT_DATA__ script not found, the page structure may have changed")

// Listing is one scraped advert
type Listing struct {
	Title        string  `json:"title"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	Bedrooms     string  `json:"bedrooms"`
	Bathrooms    string  `json:"bathrooms"`
	SizeSqft     float64 `json:"size_sqft"`
	PropertyType string  `json:"property_type"`
	URL          string  `json:"url,omitempty"`
	ScrapedDate  string  `json:"scraped_date"`
}

// Result is the outcome of one run
type Result struct {
	Listings []Listing `json:"listings"`
	Path     string    `json:"path,omitempty"`
}

type pageData struct {
	Props struct {
		PageProps struct {
			SearchResult struct {
				Properties []rawListing `json:"properties"`
			} `json:"searchResult"`
		} `json:"pageProps"`
	} `json:"props"`
}

type rawListing struct {
	Title        string          `json:"title"`
	Location     json.RawMessage `json:"location"`
	Price        json.RawMessage `json:"price"`
	Bedrooms     json.RawMessage `json:"bedrooms"`
	Bathrooms    json.RawMessage `json:"bathrooms"`
	Size         json.RawMessage `json:"size"`
	PropertyType string          `json:"propertyType"`
	URL          string          `json:"url"`
}

// Scraper collects listings from a Next.js search page
type Scraper struct {
	client  *http.Client
	target  string
	outDir  string
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a scraper for target that writes into outDir
func New(target, outDir string, log logger.Logger) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: requestTimeout},
		target: target,
		outDir: outDir,
		logger: log,
		now:    time.Now,
	}
}

// WithMetrics counts scraped listings on m
func (s *Scraper) WithMetrics(m *metrics.Metrics) *Scraper {
	s.metrics = m
	return s
}

// WithClock replaces the clock used for scraped_date
func (s *Scraper) WithClock(now func() time.Time) *Scraper {
	s.now = now
	return s
}

// Scrape fetches the target page and saves its listings. A page with no
// listings is not an error and writes nothing.
func (s *Scraper) Scrape(ctx context.Context) (*Result, error) {
	s.logger.Info("starting scrape", "url", s.target)

	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := nextData(body)
	if err != nil {
		return nil, err
	}

	var data pageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode page data: %w", err)
	}

	props := data.Props.PageProps.SearchResult.Properties
	if len(props) == 0 {
		s.logger.Warn("no properties found in page data", "url", s.target)
		return &Result{}, nil
	}

	scraped := models.FormatTimestamp(s.now())
	listings := make([]Listing, 0, len(props))
	for _, p := range props {
		listings = append(listings, Listing{
			Title:        p.Title,
			Location:     textValue(p.Location),
			Price:        numberValue(p.Price),
			Bedrooms:     textValue(p.Bedrooms),
			Bathrooms:    textValue(p.Bathrooms),
			SizeSqft:     numberValue(p.Size),
			PropertyType: p.PropertyType,
			URL:          s.absolute(p.URL),
			ScrapedDate:  scraped,
		})
	}

	path, err := s.save(listings)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordListingsScraped(len(listings))
	s.logger.Info("scrape completed", "listings", len(listings), "path", path)
	return &Result{Listings: listings, Path: path}, nil
}

func (s *Scraper) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("scrape request failed", "url", s.target, "error", err)
		return nil, fmt.Errorf("failed to fetch %s: %w", s.target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", s.target, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

// nextData returns the contents of <script id="__NEXT_DATA__">
func nextData(page []byte) ([]byte, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var found *html.Node
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == "__NEXT_DATA__" {
					found = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if found == nil || found.FirstChild == nil {
		return nil, ErrNoPageData
	}
	return []byte(found.FirstChild.Data), nil
}

func (s *Scraper) absolute(ref string) string {
	if ref == "" {
		return ""
	}
	base, err := url.Parse(s.target)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func (s *Scraper) save(listings []Listing) (string, error) {
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	buf, err := json.MarshalIndent(listings, "", "    ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.outDir, OutputFile)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		s.logger.Error("failed to save scraped listings", "path", path, "error", err)
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

// textValue reads a field that may be a string, a number or an object
// carrying a name.
func textValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		for _, k := range []string{"full_name", "name", "value"} {
			if v, ok := obj[k]; ok && v != nil {
				return fmt.Sprint(v)
			}
		}
	}
	return ""
}

// numberValue reads a field that may be a number, a formatted string or an
// object with a value.
func numberValue(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		v, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
		return v
	}
	var obj struct {
		Value json.RawMessage `json:"value"`
	}
	if json.Unmarshal(raw, &obj) == nil && len(obj.Value) > 0 {
		return numberValue(obj.Value)
	}
	return 0
}
