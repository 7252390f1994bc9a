package abtest

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// VariantConfig is the template form of a variant, before any trials.
type VariantConfig struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	TrafficAllocation float64 `json:"traffic_allocation"`
}

// Template is a pre-defined test configuration for a common real-estate
// experiment. The template table is fixed at startup and never mutated.
type Template struct {
	Name             string
	Description      string
	TestType         string
	PrimaryMetric    Metric
	SecondaryMetrics []string
	Variants         []VariantConfig
}

var templates = map[string]Template{
	"pricing_strategy": {
		Name:             "Pricing Strategy Test",
		Description:      "Test different pricing strategies for property listings",
		TestType:         "Pricing Strategy",
		PrimaryMetric:    MetricConversionRate,
		SecondaryMetrics: []string{"average_value", "time_to_sale"},
		Variants: []VariantConfig{
			{Name: "Market Price", Description: "Price at market value", TrafficAllocation: 0.5},
			{Name: "Premium Price", Description: "Price 5% above market value", TrafficAllocation: 0.5},
		},
	},
	"listing_photos": {
		Name:             "Listing Photos Test",
		Description:      "Test different photo styles for property listings",
		TestType:         "Listing Presentation",
		PrimaryMetric:    MetricConversionRate,
		SecondaryMetrics: []string{"viewing_time", "inquiry_rate"},
		Variants: []VariantConfig{
			{Name: "Professional Photos", Description: "High-quality professional photography", TrafficAllocation: 0.5},
			{Name: "Staged Photos", Description: "Professional photos with staging", TrafficAllocation: 0.5},
		},
	},
	"email_campaign": {
		Name:             "Email Campaign Test",
		Description:      "Test different email marketing approaches",
		TestType:         "Email Campaign",
		PrimaryMetric:    MetricConversionRate,
		SecondaryMetrics: []string{"open_rate", "click_rate"},
		Variants: []VariantConfig{
			{Name: "Standard Email", Description: "Standard property listing email", TrafficAllocation: 0.5},
			{Name: "Personalized Email", Description: "Personalized email with buyer preferences", TrafficAllocation: 0.5},
		},
	},
}

// TemplateNames returns the available template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTemplate returns the named template.
func LookupTemplate(name string) (Template, error) {
	tpl, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return tpl, nil
}

// Catalog is a keyed collection of test sessions.
type Catalog struct {
	sessions map[string]*Session
	order    []string
	logger   *zap.Logger
}

// NewCatalog creates an empty catalog. A nil logger defaults to a no-op.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// CreateFromTemplate instantiates a session from a named template,
// including its variant set and primary metric. An empty testName keeps
// the template's display name.
func (c *Catalog) CreateFromTemplate(templateName, testName, hypothesis string) (*Session, error) {
	tpl, err := LookupTemplate(templateName)
	if err != nil {
		return nil, err
	}

	if testName == "" {
		testName = tpl.Name
	}

	session := NewSession(testName, tpl.Description, tpl.TestType, hypothesis)
	session.PrimaryMetric = tpl.PrimaryMetric
	session.SecondaryMetrics = append([]string(nil), tpl.SecondaryMetrics...)
	session.Template = templateName

	for _, vc := range tpl.Variants {
		if err := session.AddVariant(Variant{
			Name:              vc.Name,
			Description:       vc.Description,
			TrafficAllocation: vc.TrafficAllocation,
		}); err != nil {
			return nil, err
		}
	}

	c.add(session)
	c.logger.Debug("created test from template",
		zap.String("template", templateName),
		zap.String("test_id", session.ID))
	return session, nil
}

// CreateCustom builds an empty draft session awaiting manually-added
// variants.
func (c *Catalog) CreateCustom(name, description, testType, hypothesis string) *Session {
	session := NewSession(name, description, testType, hypothesis)
	c.add(session)
	return session
}

// Add registers an externally constructed session, replacing any
// existing session with the same ID.
func (c *Catalog) Add(session *Session) {
	c.add(session)
}

func (c *Catalog) add(session *Session) {
	if _, ok := c.sessions[session.ID]; !ok {
		c.order = append(c.order, session.ID)
	}
	c.sessions[session.ID] = session
}

// Get returns the session with the given ID.
func (c *Catalog) Get(id string) (*Session, error) {
	session, ok := c.sessions[id]
	if !ok {
		return nil, fmt.Errorf("test %q: %w", id, ErrNotFound)
	}
	return session, nil
}

// List returns sessions in creation order, optionally filtered by
// status. An empty status returns everything.
func (c *Catalog) List(status Status) []*Session {
	var out []*Session
	for _, id := range c.order {
		s := c.sessions[id]
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// Summary aggregates catalog-wide counts per status.
type Summary struct {
	TotalTests      int            `json:"total_tests"`
	StatusBreakdown map[Status]int `json:"status_breakdown"`
	Templates       []string       `json:"templates_available"`
	LastUpdated     time.Time      `json:"last_updated"`
}

// Summary returns a snapshot of the catalog's contents.
func (c *Catalog) Summary() Summary {
	breakdown := make(map[Status]int)
	for _, s := range c.sessions {
		breakdown[s.Status]++
	}
	return Summary{
		TotalTests:      len(c.sessions),
		StatusBreakdown: breakdown,
		Templates:       TemplateNames(),
		LastUpdated:     time.Now(),
	}
}
