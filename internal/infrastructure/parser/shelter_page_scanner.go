package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/scanner"
)

var shelterPageSpecies = map[string]domain.Species{
	"dog":    domain.SpeciesDog,
	"puppy":  domain.SpeciesDog,
	"canine": domain.SpeciesDog,
	"cat":    domain.SpeciesCat,
	"kitten": domain.SpeciesCat,
	"feline": domain.SpeciesCat,
}

// ShelterPageScanner crawls paginated HTML listing pages made of .pet-card blocks.
type ShelterPageScanner struct {
	client   *http.Client
	pageSize int
	maxPages int
}

// NewShelterPageScanner wires an HTTP client; pageSize defaults to 24.
func NewShelterPageScanner(client *http.Client) *ShelterPageScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ShelterPageScanner{client: client, pageSize: 24, maxPages: 10}
}

// Name identifies the strategy inside the registry.
func (s *ShelterPageScanner) Name() string {
	return "shelterpage"
}

// Scan walks listing pages until a short page or the page cap is reached.
func (s *ShelterPageScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawListing, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url configured for site %s", req.SiteName)
	}

	pageSize := intOption(req.Options, "page_size", s.pageSize)
	maxPages := intOption(req.Options, "max_pages", s.maxPages)
	base := req.ResolvedURL()

	results := make([]domain.RawListing, 0)
	seen := map[string]struct{}{}

	for page := 1; page <= maxPages; page++ {
		pageURL, err := buildPageURL(base, page, pageSize)
		if err != nil {
			return nil, err
		}

		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		listings, cards := extractListings(doc, req)
		for _, listing := range listings {
			key := listing.SourceURL + "|" + listing.Name
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			results = append(results, listing)
		}

		if cards < pageSize {
			break
		}
	}

	return results, nil
}

func (s *ShelterPageScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shelter page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Url == nil {
		doc.Url = resp.Request.URL
	}

	return doc, nil
}

func extractListings(doc *goquery.Document, req scanner.Request) ([]domain.RawListing, int) {
	var (
		collected []domain.RawListing
		cards     int
	)

	doc.Find(".pet-card").Each(func(_ int, card *goquery.Selection) {
		cards++
		listing := parseCard(card, doc.Url, req.SiteName)
		if !req.WantsSpecies(listing.Species) {
			return
		}
		collected = append(collected, listing)
	})

	return collected, cards
}

func parseCard(card *goquery.Selection, base *url.URL, siteName string) domain.RawListing {
	text := func(selector string) string {
		return strings.TrimSpace(card.Find(selector).First().Text())
	}

	href, _ := card.Find("a.pet-link").First().Attr("href")
	img, _ := card.Find("img.pet-photo").First().Attr("src")
	mail, _ := card.Find("a.pet-email").First().Attr("href")
	posted, _ := card.Find("time.pet-posted").First().Attr("datetime")

	speciesAttr, _ := card.Attr("data-species")
	species := mapSpecies(shelterPageSpecies, speciesAttr)

	listing := domain.RawListing{
		SourceName:   siteName,
		SourceURL:    resolveLink(base, href),
		Name:         text(".pet-name"),
		Species:      species,
		Breed:        text(".pet-breed"),
		Age:          text(".pet-age"),
		Description:  text(".pet-description"),
		Location:     text(".pet-location"),
		ImageURL:     resolveLink(base, img),
		ContactPhone: text(".pet-phone"),
		ContactEmail: strings.TrimPrefix(strings.TrimSpace(mail), "mailto:"),
		PostedDate:   parseDate(posted),
	}

	if v, ok := card.Attr("data-days-in-shelter"); ok {
		listing.DaysInShelter = parseDays(v)
	} else {
		listing.DaysInShelter = parseDays(text(".pet-intake"))
	}
	if v, ok := card.Attr("data-deadline-days"); ok {
		listing.DaysUntilDeadline = parseDays(v)
	} else {
		listing.DaysUntilDeadline = parseDays(text(".pet-deadline"))
	}

	return listing
}

func buildPageURL(base string, page, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
