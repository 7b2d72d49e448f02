package selection

import "sanskaar/booking/internal/domain"

// VisibleServices is the service list offered for sel: the services of the
// selected category, or nothing when no known category is selected.
func VisibleServices(sel domain.Selection, catalog []domain.Category) []domain.Service {
	if sel.CategoryID == "" {
		return nil
	}
	category := domain.FindCategory(catalog, sel.CategoryID)
	if category == nil {
		return nil
	}
	return category.Services
}

// VisibleProviders is the provider list offered for sel: the expertise links
// of the selected service, provided that service belongs to the selected category.
func VisibleProviders(sel domain.Selection, catalog []domain.Category) []domain.ProviderLink {
	if sel.ServiceID == "" {
		return nil
	}
	service := domain.FindService(VisibleServices(sel, catalog), sel.ServiceID)
	if service == nil {
		return nil
	}
	return service.ProviderExpertise
}

// Reconcile clears every id in sel that the catalog no longer supports,
// together with everything downstream of it.
func Reconcile(sel domain.Selection, catalog []domain.Category) domain.Selection {
	if sel.CategoryID != "" && domain.FindCategory(catalog, sel.CategoryID) == nil {
		sel.CategoryID = ""
	}
	if sel.ServiceID != "" && domain.FindService(VisibleServices(sel, catalog), sel.ServiceID) == nil {
		sel.ServiceID = ""
	}
	if sel.ProviderID != "" && !domain.HasProvider(VisibleProviders(sel, catalog), sel.ProviderID) {
		sel.ProviderID = ""
	}
	return sel
}
