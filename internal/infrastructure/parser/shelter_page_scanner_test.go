package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/scanner"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://shelter.example.org/adoptable?location=Miami%2C+FL"
	u, err := buildPageURL(base, 3, 24)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}

	q := parsed.Query()
	if q.Get("page") != "3" {
		t.Fatalf("expected page=3, got %s", q.Get("page"))
	}
	if q.Get("per_page") != "24" {
		t.Fatalf("expected per_page=24, got %s", q.Get("per_page"))
	}
	if q.Get("location") != "Miami, FL" {
		t.Fatalf("location lost: %q", q.Get("location"))
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	html := `
	<div class="pet-card" data-species="Puppy">
	  <a class="pet-link" href="https://shelter.example.org/pets/77"><h3 class="pet-name">Biscuit</h3></a>
	  <img class="pet-photo" src="https://cdn.example.org/77.jpg">
	  <span class="pet-breed">Beagle</span>
	  <span class="pet-age">2 years</span>
	  <span class="pet-location">Miami, FL</span>
	  <span class="pet-intake">In shelter 41 days</span>
	  <span class="pet-deadline">Overdue by 2 days</span>
	  <p class="pet-description">Loves people.</p>
	  <span class="pet-phone">305-555-0100</span>
	  <a class="pet-email" href="mailto:rescue@shelter.example.org">email</a>
	  <time class="pet-posted" datetime="2026-03-01"></time>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	listing := parseCard(doc.Find(".pet-card").First(), nil, "county-shelter")

	if listing.Name != "Biscuit" {
		t.Fatalf("unexpected name: %s", listing.Name)
	}
	if listing.Species != domain.SpeciesDog {
		t.Fatalf("unexpected species: %s", listing.Species)
	}
	if listing.SourceURL != "https://shelter.example.org/pets/77" {
		t.Fatalf("unexpected source url: %s", listing.SourceURL)
	}
	if listing.DaysInShelter == nil || *listing.DaysInShelter != 41 {
		t.Fatalf("unexpected days in shelter: %v", listing.DaysInShelter)
	}
	if listing.DaysUntilDeadline == nil || *listing.DaysUntilDeadline != -2 {
		t.Fatalf("unexpected deadline: %v", listing.DaysUntilDeadline)
	}
	if listing.ContactEmail != "rescue@shelter.example.org" {
		t.Fatalf("unexpected email: %s", listing.ContactEmail)
	}
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if listing.PostedDate == nil || !listing.PostedDate.Equal(want) {
		t.Fatalf("unexpected posted date: %v", listing.PostedDate)
	}
}

func TestShelterPageScannerScan(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"1": `
		<div class="pet-card" data-species="dog" data-deadline-days="2">
		  <a class="pet-link" href="/pets/1"><span class="pet-name">Rex</span></a>
		  <span class="pet-location">Miami, FL</span>
		</div>
		<div class="pet-card" data-species="cat" data-deadline-days="9">
		  <a class="pet-link" href="/pets/2"><span class="pet-name">Tom</span></a>
		</div>`,
		"2": `
		<div class="pet-card" data-species="canine" data-days-in-shelter="40">
		  <a class="pet-link" href="/pets/3"><span class="pet-name">Bolt</span></a>
		</div>`,
	}

	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		_, _ = w.Write([]byte(pages[page]))
	}))
	defer server.Close()

	sc := NewShelterPageScanner(server.Client())
	sc.pageSize = 2

	req := scanner.Request{
		SiteName: "county-shelter",
		URL:      server.URL + "/adoptable?location={location}&species={species}",
		Location: "Miami, FL",
		Species:  "dog",
	}

	listings, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(requested) != 2 {
		t.Fatalf("expected 2 page requests, got %v", requested)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 dog listings, got %d", len(listings))
	}
	if listings[0].Name != "Rex" || listings[1].Name != "Bolt" {
		t.Fatalf("unexpected listings: %+v", listings)
	}
	if listings[0].SourceURL != server.URL+"/pets/1" {
		t.Fatalf("relative link not resolved: %s", listings[0].SourceURL)
	}
	if listings[1].DaysInShelter == nil || *listings[1].DaysInShelter != 40 {
		t.Fatalf("unexpected days in shelter: %v", listings[1].DaysInShelter)
	}
}

func TestShelterPageScannerKeepsUntypedCards(t *testing.T) {
	t.Parallel()

	page := `
	<div class="pet-card" data-deadline-days="1">
	  <a class="pet-link" href="/pets/9"><span class="pet-name">Biscuit</span></a>
	</div>
	<div class="pet-card" data-species="rabbit">
	  <a class="pet-link" href="/pets/10"><span class="pet-name">Thumper</span></a>
	</div>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	sc := NewShelterPageScanner(server.Client())

	dogs, err := sc.Scan(context.Background(), scanner.Request{SiteName: "dog-pound", URL: server.URL + "/dogs", Species: "Dog"})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(dogs) != 1 || dogs[0].Name != "Biscuit" {
		t.Fatalf("expected only the untyped card, got %+v", dogs)
	}
	if dogs[0].Species != "" {
		t.Fatalf("untyped card should carry no species, got %q", dogs[0].Species)
	}

	all, err := sc.Scan(context.Background(), scanner.Request{SiteName: "dog-pound", URL: server.URL + "/dogs", Species: "all"})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(all) != 2 || all[1].Species != domain.SpeciesUnknown {
		t.Fatalf("unmapped species should be Unknown: %+v", all)
	}
}

func TestMapSpecies(t *testing.T) {
	t.Parallel()

	if got := mapSpecies(shelterPageSpecies, " Kitten "); got != domain.SpeciesCat {
		t.Fatalf("mapSpecies(Kitten) = %q", got)
	}
	if got := mapSpecies(shelterPageSpecies, "ferret"); got != domain.SpeciesUnknown {
		t.Fatalf("mapSpecies(ferret) = %q", got)
	}
	if got := mapSpecies(shelterPageSpecies, "  "); got != "" {
		t.Fatalf("mapSpecies(blank) = %q", got)
	}
}

func TestShelterPageScannerErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	sc := NewShelterPageScanner(server.Client())
	_, err := sc.Scan(context.Background(), scanner.Request{SiteName: "down", URL: server.URL})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestParseDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  *int
	}{
		{input: ""},
		{input: "n/a"},
		{input: "12", want: domain.IntPtr(12)},
		{input: "In shelter 5 days", want: domain.IntPtr(5)},
		{input: "Overdue by 3 days", want: domain.IntPtr(-3)},
		{input: "-1", want: domain.IntPtr(-1)},
		{input: "Deadline: 0 days", want: domain.IntPtr(0)},
	}

	for _, tc := range cases {
		input, want := tc.input, tc.want
		got := parseDays(input)
		if want == nil {
			if got != nil {
				t.Fatalf("parseDays(%q) = %d, want nil", input, *got)
			}
			continue
		}
		if got == nil || *got != *want {
			t.Fatalf("parseDays(%q) = %v, want %d", input, got, *want)
		}
	}
}
