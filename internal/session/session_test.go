package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/catalog"
	"sanskaar/booking/internal/client"
	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/domain"
	"sanskaar/booking/internal/submission"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCatalog = `{"success":true,"data":[{"id":"c1","name":"Puja","services":[
	{"id":"s1","title":"Ganesh Puja","basePrice":1100,"durationMin":60,
	 "providerExpertise":[{"providerId":"p1","provider":{"id":"p1","name":"Pandit A"}}]}]}]}`

type fakeAPI struct {
	mu            sync.Mutex
	catalogStatus int
	catalogBody   string
	bookingBody   string
	posts         int32
	lastBody      map[string]any
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.URL.Path {
		case "/categories-with-services":
			if f.catalogStatus != 0 {
				w.WriteHeader(f.catalogStatus)
			}
			io.WriteString(w, f.catalogBody)
		case "/bookings":
			atomic.AddInt32(&f.posts, 1)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastBody))
			io.WriteString(w, f.bookingBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (f *fakeAPI) body() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func (f *fakeAPI) serveCatalog(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogStatus = status
	f.catalogBody = body
}

func newSession(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	server := httptest.NewServer(api.handler(t))
	t.Cleanup(server.Close)

	c := client.NewBookingClient(config.APIConfig{
		BaseURL: server.URL,
		Timeout: 5,
		Paths:   config.Paths{Catalog: "/categories-with-services", Bookings: "/bookings"},
	})
	assembler, err := submission.NewAssembler(c, nil, nil, config.BookingConfig{TimeZone: "UTC", NotesMaxLength: 500})
	require.NoError(t, err)

	return New(auth.NewCredential("token"), catalog.NewLoader(c), assembler)
}

func fillScenario(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetCategory("c1"))
	assert.Equal(t, []string{"s1"}, domain.ServiceIDs(s.Services()))
	require.NoError(t, s.SetService("s1"))
	assert.Equal(t, []string{"p1"}, domain.ProviderIDs(s.Providers()))
	require.NoError(t, s.SetProvider("p1"))
	require.NoError(t, s.SetSchedule("2025-01-10", "10:00", ""))
}

func TestSession_BookingScenario(t *testing.T) {
	api := &fakeAPI{catalogBody: scenarioCatalog, bookingBody: `{"success":true,"data":{"id":"b-7"}}`}
	s := newSession(t, api)
	ctx := context.Background()

	require.NoError(t, s.Reload(ctx))
	fillScenario(t, s)

	created, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b-7", created.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.posts))

	body := api.body()
	assert.Equal(t, "p1", body["providerId"])
	assert.Equal(t, "s1", body["serviceId"])
	assert.Equal(t, "2025-01-10T00:00:00.000Z", body["bookingDate"])
	assert.Equal(t, "2025-01-10T10:00:00.000Z", body["startTime"])
	assert.Contains(t, body, "endTime")
	assert.Nil(t, body["endTime"])
	assert.Contains(t, body, "notes")
	assert.Nil(t, body["notes"])

	assert.True(t, s.Selection().IsEmpty(), "selection is reset after a successful submit")
	assert.Equal(t, submission.StateSucceeded, s.SubmissionState())
}

func TestSession_RejectionKeepsSelection(t *testing.T) {
	api := &fakeAPI{catalogBody: scenarioCatalog, bookingBody: `{"success":false,"message":"slot taken"}`}
	s := newSession(t, api)
	ctx := context.Background()

	require.NoError(t, s.Reload(ctx))
	fillScenario(t, s)
	before := s.Selection()

	_, err := s.Submit(ctx)
	assert.ErrorIs(t, err, domain.ErrSubmissionRejected)
	assert.Contains(t, err.Error(), "slot taken")
	assert.Equal(t, before, s.Selection())
}

func TestSession_CatalogFailure(t *testing.T) {
	api := &fakeAPI{catalogStatus: http.StatusInternalServerError, catalogBody: `{"success":false}`}
	s := newSession(t, api)

	err := s.Reload(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Empty(t, s.Categories())

	assert.ErrorIs(t, s.SetCategory("c1"), domain.ErrOptionUnavailable)
	assert.Empty(t, s.Selection().CategoryID, "nothing is selectable until a reload succeeds")
	assert.Empty(t, s.Services())
	assert.ErrorIs(t, s.SetService("s1"), domain.ErrOptionUnavailable)
	assert.ErrorIs(t, s.SetProvider("p1"), domain.ErrOptionUnavailable)

	api.serveCatalog(0, scenarioCatalog)
	require.NoError(t, s.Reload(context.Background()))
	fillScenario(t, s)
}

func TestSession_ClosedSessionIgnoresResults(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		io.WriteString(w, scenarioCatalog)
	}))
	t.Cleanup(server.Close)

	c := client.NewBookingClient(config.APIConfig{
		BaseURL: server.URL,
		Timeout: 5,
		Paths:   config.Paths{Catalog: "/categories-with-services"},
	})
	assembler, err := submission.NewAssembler(c, nil, nil, config.BookingConfig{})
	require.NoError(t, err)
	s := New(auth.NewCredential("token"), catalog.NewLoader(c), assembler)

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background()) }()

	<-started
	s.Close()
	close(release)

	assert.ErrorIs(t, <-done, domain.ErrSessionClosed)
	assert.Empty(t, s.Categories(), "closed session must not take the late catalog")
	assert.ErrorIs(t, s.SetCategory("c1"), domain.ErrSessionClosed)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
