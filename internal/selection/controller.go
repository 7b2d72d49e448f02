package selection

import (
	"fmt"
	"strings"

	"sanskaar/booking/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Controller holds one form's selection and the option lists derived from it.
// Changing the category clears service and provider; changing the service
// clears the provider. It is not safe for concurrent use.
type Controller struct {
	catalog   []domain.Category
	selection domain.Selection
	services  []domain.Service
	providers []domain.ProviderLink
}

func NewController() *Controller {
	return &Controller{}
}

// ApplyCatalog replaces the catalog snapshot and drops selected ids that no
// longer exist in it. A nil or empty catalog clears the whole cascade.
func (c *Controller) ApplyCatalog(categories []domain.Category) {
	c.catalog = categories

	before := c.selection
	c.selection = Reconcile(c.selection, categories)
	if before != c.selection {
		log.Warnf("⚠️ Catalog changed, cleared stale selection (category %q->%q, service %q->%q, provider %q->%q)",
			before.CategoryID, c.selection.CategoryID,
			before.ServiceID, c.selection.ServiceID,
			before.ProviderID, c.selection.ProviderID)
	}
	c.refresh()
}

// SetCategory selects a category and clears service and provider. An id the
// loaded catalog does not know is kept and simply offers no services. With no
// catalog loaded nothing can be selected: the category stays unset and
// domain.ErrOptionUnavailable is returned.
func (c *Controller) SetCategory(categoryID string) error {
	c.selection.ServiceID = ""
	c.selection.ProviderID = ""

	if len(c.catalog) == 0 {
		c.selection.CategoryID = ""
		c.refresh()
		return fmt.Errorf("category %q: no catalog loaded: %w", categoryID, domain.ErrOptionUnavailable)
	}

	c.selection.CategoryID = categoryID
	c.refresh()
	return nil
}

// SetService selects a service from the visible list. An id outside that
// list leaves the service unset and returns domain.ErrOptionUnavailable.
func (c *Controller) SetService(serviceID string) error {
	c.selection.ProviderID = ""

	if domain.FindService(c.services, serviceID) == nil {
		c.selection.ServiceID = ""
		c.refresh()
		return fmt.Errorf("service %q: %w", serviceID, domain.ErrOptionUnavailable)
	}

	c.selection.ServiceID = serviceID
	c.refresh()
	return nil
}

// SetProvider selects a provider from the visible list. An id outside that
// list leaves the provider unset and returns domain.ErrOptionUnavailable.
func (c *Controller) SetProvider(providerID string) error {
	if !domain.HasProvider(c.providers, providerID) {
		c.selection.ProviderID = ""
		return fmt.Errorf("provider %q: %w", providerID, domain.ErrOptionUnavailable)
	}

	c.selection.ProviderID = providerID
	return nil
}

func (c *Controller) SetSchedule(date, startTime, endTime string) {
	c.selection.Date = strings.TrimSpace(date)
	c.selection.StartTime = strings.TrimSpace(startTime)
	c.selection.EndTime = strings.TrimSpace(endTime)
}

func (c *Controller) SetNotes(notes string) {
	c.selection.Notes = notes
}

// Reset empties the selection but keeps the catalog.
func (c *Controller) Reset() {
	c.selection = domain.Selection{}
	c.refresh()
}

func (c *Controller) Selection() domain.Selection {
	return c.selection
}

func (c *Controller) Categories() []domain.Category {
	return c.catalog
}

func (c *Controller) Services() []domain.Service {
	return c.services
}

func (c *Controller) Providers() []domain.ProviderLink {
	return c.providers
}

func (c *Controller) refresh() {
	c.services = VisibleServices(c.selection, c.catalog)
	c.providers = VisibleProviders(c.selection, c.catalog)
}
