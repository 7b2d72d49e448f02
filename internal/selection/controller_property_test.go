package selection

import (
	"fmt"
	"reflect"
	"testing"

	"sanskaar/booking/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildCatalog makes a catalog of nc categories with ns services each; service
// j of category i has (i+j)%(np+1) providers drawn from a shared pool.
func buildCatalog(nc, ns, np int) []domain.Category {
	categories := make([]domain.Category, 0, nc)
	for i := 0; i < nc; i++ {
		category := domain.Category{ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Category %d", i)}
		for j := 0; j < ns; j++ {
			service := domain.Service{ID: fmt.Sprintf("s%d-%d", i, j), Title: fmt.Sprintf("Service %d-%d", i, j)}
			for k := 0; k < (i+j)%(np+1); k++ {
				id := fmt.Sprintf("p%d", (i*3+j+k)%8)
				service.ProviderExpertise = append(service.ProviderExpertise, domain.ProviderLink{
					ProviderID: id,
					Provider:   domain.Provider{ID: id, Name: "Pandit " + id},
				})
			}
			category.Services = append(category.Services, service)
		}
		categories = append(categories, category)
	}
	return categories
}

func allServiceIDs(catalog []domain.Category) []string {
	var ids []string
	for _, c := range catalog {
		ids = append(ids, domain.ServiceIDs(c.Services)...)
	}
	return ids
}

func newProperties(minSuccessful int) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessful
	return gopter.NewProperties(parameters)
}

func TestServiceOutsideCategoryStaysUnset(t *testing.T) {
	properties := newProperties(200)

	properties.Property("setCategory(C); setService(S not under C) leaves service unset", prop.ForAll(
		func(nc, ns, ci, si int) bool {
			catalog := buildCatalog(nc, ns, 3)
			category := catalog[ci%nc]
			services := allServiceIDs(catalog)
			serviceID := services[si%len(services)]
			if domain.FindService(category.Services, serviceID) != nil {
				return true
			}

			c := NewController()
			c.ApplyCatalog(catalog)
			c.SetCategory(category.ID)
			err := c.SetService(serviceID)
			return err != nil && c.Selection().ServiceID == ""
		},
		gen.IntRange(2, 5),
		gen.IntRange(1, 4),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestProvidersMatchServiceExpertise(t *testing.T) {
	properties := newProperties(200)

	properties.Property("valid (C, S) yields S.providerExpertise provider ids", prop.ForAll(
		func(nc, ns, np, ci, si int) bool {
			catalog := buildCatalog(nc, ns, np)
			category := catalog[ci%nc]
			service := category.Services[si%ns]

			c := NewController()
			c.ApplyCatalog(catalog)
			c.SetCategory(category.ID)
			if err := c.SetService(service.ID); err != nil {
				return false
			}

			want := domain.ProviderIDs(service.ProviderExpertise)
			got := domain.ProviderIDs(c.Providers())
			return reflect.DeepEqual(want, got) && c.Selection().ServiceID == service.ID
		},
		gen.IntRange(1, 5),
		gen.IntRange(1, 4),
		gen.IntRange(0, 4),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestCascadeAlwaysClearsDownstream(t *testing.T) {
	properties := newProperties(200)

	properties.Property("setCategory clears service+provider, setService clears provider", prop.ForAll(
		func(ops []int) bool {
			catalog := buildCatalog(3, 3, 3)
			services := allServiceIDs(catalog)
			providers := []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7"}

			c := NewController()
			c.ApplyCatalog(catalog)

			for _, op := range ops {
				arg := op / 3
				switch op % 3 {
				case 0:
					c.SetCategory(fmt.Sprintf("c%d", arg%4)) // c3 does not exist
					sel := c.Selection()
					if sel.ServiceID != "" || sel.ProviderID != "" {
						return false
					}
				case 1:
					_ = c.SetService(services[arg%len(services)])
					if c.Selection().ProviderID != "" {
						return false
					}
				case 2:
					_ = c.SetProvider(providers[arg%len(providers)])
				}

				// The selection never points at ids the catalog does not back.
				sel := c.Selection()
				reconciled := Reconcile(sel, catalog)
				if reconciled.ServiceID != sel.ServiceID || reconciled.ProviderID != sel.ProviderID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 300)),
	))

	properties.TestingRun(t)
}

func TestApplyCatalogNeverLeavesStaleIDs(t *testing.T) {
	properties := newProperties(200)

	properties.Property("after a reload every selected id exists in the new catalog", prop.ForAll(
		func(ci, si, pi, keep int) bool {
			catalog := buildCatalog(4, 3, 3)
			category := catalog[ci%len(catalog)]
			service := category.Services[si%len(category.Services)]

			c := NewController()
			c.ApplyCatalog(catalog)
			c.SetCategory(category.ID)
			_ = c.SetService(service.ID)
			if len(service.ProviderExpertise) > 0 {
				_ = c.SetProvider(service.ProviderExpertise[pi%len(service.ProviderExpertise)].ProviderID)
			}

			c.ApplyCatalog(buildCatalog(keep%5, 1+keep%3, keep%4))

			return Reconcile(c.Selection(), c.Categories()) == c.Selection()
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
