package crm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestAssigned   RequestStatus = "assigned"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
	RequestOnHold     RequestStatus = "on_hold"
)

// Service types offered by the toolkit.
const (
	ServiceBusinessAnalytics = "Business Analytics"
	ServiceDataPlatformSetup = "Data Platform Setup"
	ServiceKPIIdentification = "KPI Identification"
	ServiceABTesting         = "A/B Testing"
	ServiceDashboardCreation = "Dashboard Creation"
	ServiceDataAnalysis      = "Data Analysis"
)

// Project types.
const (
	ProjectOneTime      = "One-time project"
	ProjectOngoing      = "Ongoing project"
	ProjectConsultation = "Consultation"
)

var priorities = []string{"Low", "Medium", "High", "Urgent"}

// ServiceRequest tracks one client engagement from intake to delivery.
type ServiceRequest struct {
	ID          string
	Client      *Client
	ServiceType string
	ProjectType string

	Title        string
	Description  string
	Requirements []string
	Deliverables []string

	Deadline              time.Time
	EstimatedDurationDays int

	Provider *Provider
	Status   RequestStatus
	Priority string

	ProgressPercentage int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewServiceRequest creates a pending request with a deadline derived
// from the estimated duration.
func NewServiceRequest(client *Client, serviceType string) *ServiceRequest {
	now := time.Now()
	const estimatedDays = 7
	return &ServiceRequest{
		ID:                    uuid.NewString(),
		Client:                client,
		ServiceType:           serviceType,
		ProjectType:           ProjectOneTime,
		Title:                 "Real Estate Analytics Request",
		EstimatedDurationDays: estimatedDays,
		Deadline:              now.AddDate(0, 0, estimatedDays),
		Status:                RequestPending,
		Priority:              "Medium",
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// SetPriority validates and updates the request priority.
func (r *ServiceRequest) SetPriority(priority string) error {
	for _, valid := range priorities {
		if priority == valid {
			r.Priority = priority
			r.touch()
			return nil
		}
	}
	return fmt.Errorf("invalid priority %q: %w", priority, ErrValidation)
}

// Assign moves a pending request to a provider.
func (r *ServiceRequest) Assign(p *Provider) error {
	if r.Status != RequestPending && r.Status != RequestOnHold {
		return fmt.Errorf("cannot assign %s request: %w", r.Status, ErrValidation)
	}
	if !p.CanHandle(r.ServiceType) {
		return fmt.Errorf("provider %q cannot handle %q: %w", p.Name, r.ServiceType, ErrValidation)
	}
	r.Provider = p
	r.Status = RequestAssigned
	r.touch()
	return nil
}

// Begin moves an assigned request into progress.
func (r *ServiceRequest) Begin() error {
	if r.Status != RequestAssigned {
		return fmt.Errorf("cannot begin %s request: %w", r.Status, ErrValidation)
	}
	r.Status = RequestInProgress
	r.touch()
	return nil
}

// UpdateProgress records completion percentage in [0,100].
func (r *ServiceRequest) UpdateProgress(pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("progress %d out of range: %w", pct, ErrValidation)
	}
	r.ProgressPercentage = pct
	r.touch()
	return nil
}

// Complete finishes an in-progress request.
func (r *ServiceRequest) Complete() error {
	if r.Status != RequestInProgress {
		return fmt.Errorf("cannot complete %s request: %w", r.Status, ErrValidation)
	}
	r.Status = RequestCompleted
	r.ProgressPercentage = 100
	r.touch()
	return nil
}

// Hold pauses any active request.
func (r *ServiceRequest) Hold() error {
	if r.Status == RequestCompleted || r.Status == RequestCancelled {
		return fmt.Errorf("cannot hold %s request: %w", r.Status, ErrValidation)
	}
	r.Status = RequestOnHold
	r.touch()
	return nil
}

// Cancel terminates any non-final request.
func (r *ServiceRequest) Cancel() error {
	if r.Status == RequestCompleted || r.Status == RequestCancelled {
		return fmt.Errorf("cannot cancel %s request: %w", r.Status, ErrValidation)
	}
	r.Status = RequestCancelled
	r.touch()
	return nil
}

func (r *ServiceRequest) touch() {
	r.UpdatedAt = time.Now()
}
