package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShelterScanner/internal/config"
)

const shelterPage = `
<div class="pet-card" data-species="dog" data-deadline-days="2">
  <a class="pet-link" href="/pets/1"><span class="pet-name">Rex</span></a>
  <span class="pet-location">Miami, FL</span>
</div>
<div class="pet-card" data-species="cat" data-days-in-shelter="12">
  <a class="pet-link" href="/pets/2"><span class="pet-name">Tom</span></a>
</div>`

func testConfig(t *testing.T, siteURL string) config.Config {
	t.Helper()
	return config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "app.db")},
		HTTP:     config.HTTPConfig{Addr: "127.0.0.1:0"},
		Scheduler: config.SchedulerConfig{
			Interval: time.Hour,
		},
		Ingestion: config.IngestionConfig{
			Locations:      []string{"Miami, FL"},
			Species:        []string{"all"},
			Concurrency:    1,
			RequestTimeout: 5 * time.Second,
		},
		Sites: []config.SiteConfig{
			{Name: "county", Scanner: "shelterpage", URL: siteURL + "/adoptable?location={location}&species={species}"},
		},
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIngestAndServe(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shelterPage))
	}))
	defer site.Close()

	application, err := New(testConfig(t, site.URL), quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	ctx := context.Background()
	_, err = application.Subscribe(ctx, "dogs@example.org", []string{"fl"}, []string{"dog"})
	require.NoError(t, err)

	report, err := application.Ingest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Persisted)
	assert.Equal(t, 1, report.Alerts)

	report, err = application.Ingest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Duplicates)

	srv := httptest.NewServer(application.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pets?urgency=critical")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Pets []struct {
			Name     string `json:"name"`
			Region   string `json:"region"`
			Location string `json:"location"`
		} `json:"pets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Pets, 1)
	assert.Equal(t, "Rex", body.Pets[0].Name)
	assert.Equal(t, "FL", body.Pets[0].Region)

	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	raw, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "shelterscanner_ingestion_runs_total"))
}

func TestIngestReportsUnreachableSources(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer site.Close()

	application, err := New(testConfig(t, site.URL), quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	report, err := application.Ingest(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, report.SourcesFailed)
}

func TestNewRejectsUnknownScanner(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1")
	cfg.Sites[0].Scanner = "carrier-pigeon"

	_, err := New(cfg, quiet())
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shelterPage))
	}))
	defer site.Close()

	application, err := New(testConfig(t, site.URL), quiet())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(20 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
