package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/usecase"
)

// Handler serves the read, trigger and subscription endpoints.
type Handler struct {
	pets   PetQuerier
	ingest Ingester
	subs   Subscriber
	db     Pinger
	log    *slog.Logger
}

// NewHandler wires the use cases behind the HTTP surface.
func NewHandler(pets PetQuerier, ingest Ingester, subs Subscriber, db Pinger, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		pets:   pets,
		ingest: ingest,
		subs:   subs,
		db:     db,
		log:    log.With("component", "api"),
	}
}

// GetHealth reports service liveness and database reachability.
func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			h.log.Error("Database ping failed", "error", err)
			health["status"] = "degraded"
			health["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "ok"
	}

	c.JSON(http.StatusOK, health)
}

// ListPets returns active records matching the query filters, most urgent first.
func (h *Handler) ListPets(c *gin.Context) {
	filter, page, err := parsePetQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	records, err := h.pets.Search(c.Request.Context(), filter, page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	pets := make([]petResponse, 0, len(records))
	for _, r := range records {
		pets = append(pets, toPetResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"pets":  pets,
		"count": len(pets),
	})
}

// GetPet returns a single record by id.
func (h *Handler) GetPet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pet id"})
		return
	}

	record, err := h.pets.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPetResponse(record))
}

// ArchivePet hides a record from listings.
func (h *Handler) ArchivePet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pet id"})
		return
	}

	if err := h.pets.Archive(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStats returns counts of active records by tier and species.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.pets.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// TriggerIngest runs one ingestion work item synchronously.
func (h *Handler) TriggerIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	species := strings.TrimSpace(req.Species)
	if species == "" || strings.EqualFold(species, domain.AllSpecies) {
		species = domain.AllSpecies
	} else if parsed, ok := domain.ParseSpecies(species); ok {
		species = string(parsed)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown species %q", req.Species)})
		return
	}

	report, err := h.ingest.RunOne(c.Request.Context(), strings.TrimSpace(req.Location), species)
	if errors.Is(err, usecase.ErrAllSourcesUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": report})
		return
	}
	if err != nil {
		h.log.Error("Manual ingestion failed", "location", req.Location, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed", "report": report})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Subscribe creates or replaces an alert subscription.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	sub, err := h.subs.Subscribe(c.Request.Context(), req.Email, req.Regions, req.Species)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter), errors.Is(err, domain.ErrInvalidSubscription):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func parsePetQuery(c *gin.Context) (domain.PetFilter, domain.Page, error) {
	var (
		filter domain.PetFilter
		page   domain.Page
		err    error
	)

	filter.Region = c.Query("region")
	if species := c.Query("species"); species != "" && !strings.EqualFold(species, domain.AllSpecies) {
		filter.Species = domain.Species(species)
	}
	filter.UrgencyTier = domain.UrgencyTier(c.Query("urgency"))

	if filter.DaysInShelterMin, err = optionalInt(c, "shelter_min"); err != nil {
		return filter, page, err
	}
	if filter.DaysInShelterMax, err = optionalInt(c, "shelter_max"); err != nil {
		return filter, page, err
	}
	if filter.DaysUntilDeadlineMax, err = optionalInt(c, "deadline_max"); err != nil {
		return filter, page, err
	}

	if limit, err := optionalInt(c, "limit"); err != nil {
		return filter, page, err
	} else if limit != nil {
		page.Limit = *limit
	}
	if offset, err := optionalInt(c, "offset"); err != nil {
		return filter, page, err
	} else if offset != nil {
		page.Offset = *offset
	}

	return filter, page, nil
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%s=%q is not an integer: %w", key, raw, domain.ErrInvalidFilter)
	}
	return &v, nil
}
