package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/container"
	"sanskaar/booking/internal/domain"
	"sanskaar/booking/internal/domain/event"
	"sanskaar/booking/internal/service"

	"github.com/google/uuid"
)

// command registers its flags on fs and returns the action to run once they
// are parsed.
type command func(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error

var commands = map[string]command{
	"login":     loginCommand,
	"logout":    logoutCommand,
	"catalog":   catalogCommand,
	"book":      bookCommand,
	"bookings":  bookingsCommand,
	"booking":   bookingCommand,
	"inbox":     inboxCommand,
	"accept":    statusCommand(true),
	"reject":    statusCommand(false),
	"dashboard": dashboardCommand,
	"journal":   journalCommand,
	"events":    eventsCommand,
}

func loginCommand(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	profile := fs.String("profile", "", "profile to store the tokens under")

	return func(ctx context.Context) error {
		_, err := app.Service.Login(ctx, service.LoginInput{
			Email:    *email,
			Password: *password,
			Profile:  *profile,
		})
		if err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil
	}
}

func logoutCommand(_ *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return app.Service.Logout(ctx)
	}
}

// authenticated resolves the credential before running fn.
func authenticated(app *container.Container, fn func(ctx context.Context, cred auth.Credential) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cred, err := app.Service.Credential(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, cred)
	}
}

func catalogCommand(_ *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
		categories, err := app.Service.Catalog(ctx, cred)
		if err != nil {
			return err
		}
		printCatalog(categories)
		return nil
	})
}

func bookCommand(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	var input service.BookingInput
	fs.StringVar(&input.CategoryID, "category", "", "category id")
	fs.StringVar(&input.ServiceID, "service", "", "service id")
	fs.StringVar(&input.ProviderID, "provider", "", "provider id")
	fs.StringVar(&input.Date, "date", "", "booking date (YYYY-MM-DD)")
	fs.StringVar(&input.StartTime, "start", "", "start time (HH:MM)")
	fs.StringVar(&input.EndTime, "end", "", "end time (HH:MM, optional)")
	fs.StringVar(&input.Notes, "notes", "", "notes for the provider (optional)")

	return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
		created, err := app.Service.Book(ctx, cred, input)
		if err != nil {
			return err
		}
		if created.ID == "" {
			fmt.Println("Booking requested.")
		} else {
			fmt.Printf("Booking requested: %s\n", created.ID)
		}
		return nil
	})
}

func bookingsCommand(_ *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
		bookings, err := app.Service.MyBookings(ctx, cred)
		if err != nil {
			return err
		}
		printBookings(bookings)
		return nil
	})
}

func inboxCommand(_ *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
		bookings, err := app.Service.Inbox(ctx, cred)
		if err != nil {
			return err
		}
		printBookings(bookings)
		return nil
	})
}

func bookingCommand(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	id := fs.String("id", "", "booking id")

	return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
		if *id == "" {
			return &domain.MissingFieldError{Field: "id"}
		}
		booking, err := app.Service.Booking(ctx, cred, *id)
		if err != nil {
			return err
		}
		printBooking(booking)
		return nil
	})
}

func statusCommand(accept bool) command {
	return func(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
		id := fs.String("id", "", "booking id")

		return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
			if *id == "" {
				return &domain.MissingFieldError{Field: "id"}
			}
			if accept {
				return app.Service.Accept(ctx, cred, *id)
			}
			return app.Service.Reject(ctx, cred, *id)
		})
	}
}

func dashboardCommand(_ *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	return authenticated(app, func(ctx context.Context, cred auth.Credential) error {
		dashboard, err := app.Service.Dashboard(ctx, cred)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Categories\t%d\n", dashboard.Catalog.Categories)
		fmt.Fprintf(w, "Services\t%d\n", dashboard.Catalog.Services)
		fmt.Fprintf(w, "Providers\t%d\n", dashboard.Catalog.Providers)
		fmt.Fprintf(w, "Bookings\t%d\n", dashboard.Total)
		for _, status := range domain.BookingStatuses {
			fmt.Fprintf(w, "  %s\t%d\n", status.GetDisplayName(), dashboard.Bookings[status])
		}
		return w.Flush()
	})
}

func journalCommand(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	limit := fs.Int("limit", 20, "number of entries")

	return func(ctx context.Context) error {
		records, err := app.Service.Journal(ctx, *limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSERVICE\tPROVIDER\tSTART\tSUBMITTED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.ServiceID, r.ProviderID, r.StartTime,
				r.SubmittedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	}
}

func eventsCommand(fs *flag.FlagSet, app *container.Container) func(ctx context.Context) error {
	consumer := fs.String("consumer", "", "consumer name (default: random)")

	return func(ctx context.Context) error {
		name := *consumer
		if name == "" {
			name = "console-" + uuid.NewString()[:8]
		}
		return app.Service.TailEvents(ctx, name, printEvent)
	}
}

func printCatalog(categories []domain.Category) {
	for _, c := range categories {
		fmt.Printf("%s  %s\n", c.ID, c.Name)
		for _, s := range c.Services {
			fmt.Printf("  %s  %s  (%s, %d min)\n", s.ID, s.Title, s.BasePrice, s.DurationMin)
			for _, p := range s.ProviderExpertise {
				fmt.Printf("    %s  %s  %s\n", p.ProviderID, p.Provider.Name, p.ExperienceLevel)
			}
		}
	}
}

func printBookings(bookings []domain.Booking) {
	if len(bookings) == 0 {
		fmt.Println("No bookings.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSERVICE\tPROVIDER\tDATE\tSTART")
	for _, b := range bookings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Status.GetDisplayName(), b.Service.Title, b.Provider.Name, b.Date, b.StartTime)
	}
	w.Flush()
}

func printBooking(b *domain.Booking) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", b.ID)
	fmt.Fprintf(w, "Status\t%s\n", b.Status.GetDisplayName())
	fmt.Fprintf(w, "Service\t%s (%s)\n", b.Service.Title, b.Service.Price)
	fmt.Fprintf(w, "Provider\t%s\n", b.Provider.Name)
	fmt.Fprintf(w, "Date\t%s\n", b.Date)
	fmt.Fprintf(w, "Time\t%s\n", strings.TrimSuffix(b.StartTime+" - "+b.EndTime, " - "))
	if b.Notes != "" {
		fmt.Fprintf(w, "Notes\t%s\n", b.Notes)
	}
	w.Flush()
}

func printEvent(e event.Event) {
	switch e := e.(type) {
	case *event.BookingCreatedEvent:
		fmt.Printf("%s  created   %s  service=%s provider=%s start=%s\n",
			e.CreatedAt.Format("15:04:05"), e.BookingID, e.ServiceID, e.ProviderID, e.StartTime)
	case *event.BookingStatusChangedEvent:
		fmt.Printf("%s  %-9s %s  (was %s)\n",
			e.ChangedAt.Format("15:04:05"), strings.ToLower(e.To.GetDisplayName()), e.BookingID, e.From.GetDisplayName())
	}
}
