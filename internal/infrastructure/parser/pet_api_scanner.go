package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/scanner"
)

var petAPISpecies = map[string]domain.Species{
	"dog":    domain.SpeciesDog,
	"canine": domain.SpeciesDog,
	"puppy":  domain.SpeciesDog,
	"cat":    domain.SpeciesCat,
	"feline": domain.SpeciesCat,
	"kitten": domain.SpeciesCat,
}

type apiAnimalsResponse struct {
	Animals    []apiAnimal `json:"animals"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	} `json:"pagination"`
}

type apiAnimal struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Breeds struct {
		Primary   string `json:"primary"`
		Secondary string `json:"secondary"`
		Mixed     bool   `json:"mixed"`
	} `json:"breeds"`
	Age         string `json:"age"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Photos      []struct {
		Medium string `json:"medium"`
		Full   string `json:"full"`
	} `json:"photos"`
	Contact struct {
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address struct {
			City  string `json:"city"`
			State string `json:"state"`
		} `json:"address"`
	} `json:"contact"`
	PublishedAt      string `json:"published_at"`
	DaysInShelter    *int   `json:"days_in_shelter"`
	EuthanasiaInDays *int   `json:"euthanasia_in_days"`
}

// PetAPIScanner queries a paginated JSON animals endpoint.
type PetAPIScanner struct {
	client   *resty.Client
	pageSize int
	maxPages int
}

// NewPetAPIScanner wraps a resty client; a nil client gets sane defaults.
func NewPetAPIScanner(client *resty.Client) *PetAPIScanner {
	if client == nil {
		client = resty.New().SetTimeout(20 * time.Second)
	}
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "application/json")
	return &PetAPIScanner{client: client, pageSize: 100, maxPages: 5}
}

// Name identifies the strategy inside the registry.
func (p *PetAPIScanner) Name() string {
	return "petapi"
}

// Scan pages through the animals endpoint for the requested location and type.
func (p *PetAPIScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawListing, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url configured for site %s", req.SiteName)
	}

	endpoint := strings.TrimSuffix(req.ResolvedURL(), "/") + "/animals"
	pageSize := intOption(req.Options, "page_size", p.pageSize)
	maxPages := intOption(req.Options, "max_pages", p.maxPages)

	params := map[string]string{
		"location": req.Location,
		"limit":    strconv.Itoa(pageSize),
	}
	if req.Species != "" && !strings.EqualFold(req.Species, domain.AllSpecies) {
		params["type"] = strings.ToLower(req.Species)
	}

	var results []domain.RawListing
	for page := 1; page <= maxPages; page++ {
		params["page"] = strconv.Itoa(page)

		var payload apiAnimalsResponse
		r := p.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&payload).
			ForceContentType("application/json")
		if token := req.Options["api_key"]; token != "" {
			r.SetAuthToken(token)
		}

		res, err := r.Get(endpoint)
		if err != nil {
			return nil, fmt.Errorf("request animals page %d: %w", page, err)
		}
		if res.IsError() {
			return nil, fmt.Errorf("pet api returned %s", res.Status())
		}

		for _, animal := range payload.Animals {
			listing := animal.toRawListing(req.SiteName)
			if !req.WantsSpecies(listing.Species) {
				continue
			}
			results = append(results, listing)
		}

		if page >= payload.Pagination.TotalPages || len(payload.Animals) == 0 {
			break
		}
	}

	return results, nil
}

func (a apiAnimal) toRawListing(siteName string) domain.RawListing {
	species := mapSpecies(petAPISpecies, a.Type)

	breed := a.Breeds.Primary
	switch {
	case a.Breeds.Secondary != "":
		breed = fmt.Sprintf("%s / %s", a.Breeds.Primary, a.Breeds.Secondary)
	case a.Breeds.Mixed && breed != "":
		breed += " Mix"
	}

	var location string
	switch {
	case a.Contact.Address.City != "" && a.Contact.Address.State != "":
		location = a.Contact.Address.City + ", " + a.Contact.Address.State
	default:
		location = a.Contact.Address.City + a.Contact.Address.State
	}

	var image string
	if len(a.Photos) > 0 {
		image = a.Photos[0].Medium
		if image == "" {
			image = a.Photos[0].Full
		}
	}

	return domain.RawListing{
		SourceName:        siteName,
		SourceURL:         a.URL,
		Name:              a.Name,
		Species:           species,
		Breed:             breed,
		Age:               a.Age,
		Description:       a.Description,
		Location:          location,
		ImageURL:          image,
		ContactPhone:      a.Contact.Phone,
		ContactEmail:      a.Contact.Email,
		DaysInShelter:     a.DaysInShelter,
		DaysUntilDeadline: a.EuthanasiaInDays,
		PostedDate:        parseDate(a.PublishedAt),
	}
}
