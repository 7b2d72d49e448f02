package domain

// Provider is a performer of services ("pandit" in the admin UI).
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProviderLink is the eligibility edge between a Service and a Provider.
type ProviderLink struct {
	ProviderID      string   `json:"providerId"`
	Provider        Provider `json:"provider"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
}

type Service struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	BasePrice         Price          `json:"basePrice"`
	DurationMin       int            `json:"durationMin"`
	ProviderExpertise []ProviderLink `json:"providerExpertise"`
}

type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

// FindCategory returns the category with the given id, or nil.
func FindCategory(categories []Category, id string) *Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// FindService returns the service with the given id, or nil.
func FindService(services []Service, id string) *Service {
	for i := range services {
		if services[i].ID == id {
			return &services[i]
		}
	}
	return nil
}

// HasProvider reports whether the provider id is among the links.
func HasProvider(links []ProviderLink, id string) bool {
	for _, link := range links {
		if link.ProviderID == id {
			return true
		}
	}
	return false
}

// ProviderIDs maps the links to their provider ids, preserving order.
func ProviderIDs(links []ProviderLink) []string {
	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ProviderID)
	}
	return ids
}

// ServiceIDs maps the services to their ids, preserving order.
func ServiceIDs(services []Service) []string {
	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids
}

// CatalogStats summarises a catalog tree.
type CatalogStats struct {
	Categories int `json:"categories"`
	Services   int `json:"services"`
	Providers  int `json:"providers"` // distinct providers across all services
}

func StatsOf(categories []Category) CatalogStats {
	stats := CatalogStats{Categories: len(categories)}
	seen := make(map[string]struct{})
	for _, c := range categories {
		stats.Services += len(c.Services)
		for _, s := range c.Services {
			for _, link := range s.ProviderExpertise {
				seen[link.ProviderID] = struct{}{}
			}
		}
	}
	stats.Providers = len(seen)
	return stats
}
