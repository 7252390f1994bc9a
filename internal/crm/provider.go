package crm

import (
	"fmt"
	"time"
)

// Availability states for a service provider.
const (
	AvailabilityAvailable   = "Available"
	AvailabilityBusy        = "Busy"
	AvailabilityUnavailable = "Unavailable"
)

var availabilityStates = []string{AvailabilityAvailable, AvailabilityBusy, AvailabilityUnavailable}

// Provider is someone who delivers analytics services.
type Provider struct {
	Name           string
	Specialization string
	Skills         []string
	Tools          []string
	Certifications []string
	Availability   string

	CompletedProjects int
	Rating            float64

	CreatedAt time.Time
}

// NewProvider creates an available provider.
func NewProvider(name string) *Provider {
	return &Provider{
		Name:           name,
		Specialization: "Real Estate Analytics",
		Availability:   AvailabilityAvailable,
		CreatedAt:      time.Now(),
	}
}

// SetAvailability updates the provider's availability state.
func (p *Provider) SetAvailability(status string) error {
	for _, valid := range availabilityStates {
		if status == valid {
			p.Availability = status
			return nil
		}
	}
	return fmt.Errorf("invalid availability %q: %w", status, ErrValidation)
}

// AddSkill records a service the provider can deliver, ignoring
// duplicates.
func (p *Provider) AddSkill(skill string) {
	for _, s := range p.Skills {
		if s == skill {
			return
		}
	}
	p.Skills = append(p.Skills, skill)
}

// CanHandle reports whether the provider lists the service among their
// skills.
func (p *Provider) CanHandle(serviceType string) bool {
	for _, s := range p.Skills {
		if s == serviceType {
			return true
		}
	}
	return false
}

// CompleteProject increments the project count and folds the new rating
// into the running average.
func (p *Provider) CompleteProject(rating float64) {
	total := p.Rating*float64(p.CompletedProjects) + rating
	p.CompletedProjects++
	p.Rating = total / float64(p.CompletedProjects)
}
