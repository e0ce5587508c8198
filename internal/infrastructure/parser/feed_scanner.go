package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/scanner"
)

const feedExtensionPrefix = "shelter"

var feedSpecies = map[string]domain.Species{
	"dogs":    domain.SpeciesDog,
	"dog":     domain.SpeciesDog,
	"puppies": domain.SpeciesDog,
	"cats":    domain.SpeciesCat,
	"cat":     domain.SpeciesCat,
	"kittens": domain.SpeciesCat,
}

// FeedScanner reads RSS/Atom feeds of adoptable animals. Shelter-specific
// fields travel in the "shelter" namespace (shelter:deadline, shelter:location...).
type FeedScanner struct {
	client *http.Client
}

// NewFeedScanner keeps the HTTP client; parsers are built per scan because
// gofeed parsers carry state.
func NewFeedScanner(client *http.Client) *FeedScanner {
	return &FeedScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (f *FeedScanner) Name() string {
	return "rssfeed"
}

// Scan fetches the feed and keeps items matching the requested species.
func (f *FeedScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawListing, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url configured for site %s", req.SiteName)
	}

	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	if f.client != nil {
		fp.Client = f.client
	}

	feed, err := fp.ParseURLWithContext(req.ResolvedURL(), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	results := make([]domain.RawListing, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		listing := feedItemListing(item, req.SiteName)
		if !req.WantsSpecies(listing.Species) {
			continue
		}
		results = append(results, listing)
	}

	return results, nil
}

func feedItemListing(item *gofeed.Item, siteName string) domain.RawListing {
	// Categories double as free tags, so an item without a species category
	// stays untyped.
	var species domain.Species
	for _, category := range item.Categories {
		if sp, ok := feedSpecies[strings.ToLower(strings.TrimSpace(category))]; ok {
			species = sp
			break
		}
	}

	var image string
	if item.Image != nil {
		image = item.Image.URL
	}
	if image == "" {
		for _, enc := range item.Enclosures {
			if enc != nil && strings.HasPrefix(enc.Type, "image/") {
				image = enc.URL
				break
			}
		}
	}

	listing := domain.RawListing{
		SourceName:        siteName,
		SourceURL:         item.Link,
		Name:              item.Title,
		Species:           species,
		Breed:             feedExtension(item, "breed"),
		Age:               feedExtension(item, "age"),
		Description:       plainText(item.Description),
		Location:          feedExtension(item, "location"),
		ImageURL:          image,
		ContactPhone:      feedExtension(item, "phone"),
		ContactEmail:      feedExtension(item, "email"),
		DaysInShelter:     parseDays(feedExtension(item, "intake")),
		DaysUntilDeadline: parseDays(feedExtension(item, "deadline")),
	}
	if item.PublishedParsed != nil {
		published := item.PublishedParsed.UTC()
		listing.PostedDate = &published
	}

	return listing
}

func feedExtension(item *gofeed.Item, name string) string {
	fields, ok := item.Extensions[feedExtensionPrefix]
	if !ok {
		return ""
	}
	values := fields[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}

func plainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(doc.Text())
}
