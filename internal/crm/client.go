// Package crm holds the bookkeeping records for clients, service
// providers and service requests. These are thin value types; analytics
// runs elsewhere.
package crm

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation reports an invalid enum value or state transition.
var ErrValidation = errors.New("validation failed")

// Experience levels a client can report for their analytics maturity.
const (
	ExperienceBeginner     = "Beginner"
	ExperienceIntermediate = "Intermediate"
	ExperienceAdvanced     = "Advanced"
)

var experienceLevels = []string{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced}

// Client is a business requesting analytics services.
type Client struct {
	Name         string
	Location     string
	Company      string
	Industry     string
	ContactEmail string
	ContactPhone string
	BusinessType string

	CompanySize    string
	AnnualRevenue  string
	PrimaryMarkets []string

	AnalyticsTools []string
	DataSources    []string
	Experience     string

	CreatedAt time.Time
}

// NewClient creates a client with the usual real-estate defaults.
func NewClient(name, location string) *Client {
	return &Client{
		Name:           name,
		Location:       location,
		Industry:       "Real Estate",
		BusinessType:   "Consumer Products",
		PrimaryMarkets: []string{"Residential", "Commercial"},
		AnalyticsTools: []string{"Excel"},
		Experience:     ExperienceBeginner,
		CreatedAt:      time.Now(),
	}
}

// SetExperience updates the analytics experience level.
func (c *Client) SetExperience(level string) error {
	for _, valid := range experienceLevels {
		if level == valid {
			c.Experience = level
			return nil
		}
	}
	return fmt.Errorf("invalid experience level %q: %w", level, ErrValidation)
}

// AddDataSource records a data source the client already has, ignoring
// duplicates.
func (c *Client) AddDataSource(source string) {
	for _, s := range c.DataSources {
		if s == source {
			return
		}
	}
	c.DataSources = append(c.DataSources, source)
}

// AddAnalyticsTool records a tool in the client's current stack,
// ignoring duplicates.
func (c *Client) AddAnalyticsTool(tool string) {
	for _, t := range c.AnalyticsTools {
		if t == tool {
			return
		}
	}
	c.AnalyticsTools = append(c.AnalyticsTools, tool)
}

func (c *Client) String() string {
	return fmt.Sprintf("Client: %s (%s) - %s", c.Name, c.Location, c.BusinessType)
}
