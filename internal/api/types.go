package api

import (
	"context"
	"time"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/usecase"
)

// PetQuerier serves read access to stored records.
type PetQuerier interface {
	Search(ctx context.Context, filter domain.PetFilter, page domain.Page) ([]domain.PetRecord, error)
	Get(ctx context.Context, id int64) (domain.PetRecord, error)
	Archive(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.Stats, error)
}

// Ingester triggers a single ingestion work item.
type Ingester interface {
	RunOne(ctx context.Context, location, species string) (domain.BatchReport, error)
}

// Subscriber registers alert subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, email string, regions, species []string) (domain.AlertSubscription, error)
}

// Pinger reports storage liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ PetQuerier = (*usecase.QueryEngine)(nil)
	_ Ingester   = (*usecase.Pipeline)(nil)
	_ Subscriber = (*usecase.SubscriptionService)(nil)
)

type ingestRequest struct {
	Location string `json:"location" binding:"required"`
	Species  string `json:"species"`
}

type subscribeRequest struct {
	Email   string   `json:"email" binding:"required"`
	Regions []string `json:"regions"`
	Species []string `json:"species"`
}

type petResponse struct {
	ID                int64     `json:"id"`
	SourceName        string    `json:"source_name"`
	SourceURL         string    `json:"source_url"`
	Name              string    `json:"name"`
	Species           string    `json:"species"`
	Breed             string    `json:"breed"`
	Age               string    `json:"age"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Region            *string   `json:"region"`
	DaysInShelter     *int      `json:"days_in_shelter"`
	DaysUntilDeadline *int      `json:"days_until_deadline"`
	UrgencyTier       string    `json:"urgency_tier"`
	ContactPhone      string    `json:"contact_phone"`
	ContactEmail      string    `json:"contact_email"`
	ImageURL          string    `json:"image_url"`
	PostedDate        string    `json:"posted_date"`
	IngestedAt        time.Time `json:"ingested_at"`
	IsActive          bool      `json:"is_active"`
}

func toPetResponse(r domain.PetRecord) petResponse {
	return petResponse{
		ID:                r.ID,
		SourceName:        r.SourceName,
		SourceURL:         r.SourceURL,
		Name:              r.Name,
		Species:           string(r.Species),
		Breed:             r.Breed,
		Age:               r.Age,
		Description:       r.Description,
		Location:          r.Location,
		Region:            r.Region,
		DaysInShelter:     r.DaysInShelter,
		DaysUntilDeadline: r.DaysUntilDeadline,
		UrgencyTier:       string(r.UrgencyTier),
		ContactPhone:      r.ContactPhone,
		ContactEmail:      r.ContactEmail,
		ImageURL:          r.ImageURL,
		PostedDate:        r.PostedDate.Format(time.DateOnly),
		IngestedAt:        r.IngestedAt,
		IsActive:          r.IsActive,
	}
}

type subscriptionResponse struct {
	Email     string    `json:"email"`
	Regions   []string  `json:"regions"`
	Species   []string  `json:"species"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSubscriptionResponse(s domain.AlertSubscription) subscriptionResponse {
	species := make([]string, 0, len(s.Species))
	for _, sp := range s.Species {
		species = append(species, string(sp))
	}
	regions := s.Regions
	if regions == nil {
		regions = []string{}
	}
	return subscriptionResponse{
		Email:     s.Email,
		Regions:   regions,
		Species:   species,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
