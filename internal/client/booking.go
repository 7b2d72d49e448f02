package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sanskaar/booking/internal/auth"
	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type BookingClient interface {
	GetCatalog(ctx context.Context, cred auth.Credential) ([]domain.Category, error)
	CreateBooking(ctx context.Context, cred auth.Credential, req *domain.CreateBookingRequest) (*domain.CreatedBooking, error)
	ListMyBookings(ctx context.Context, cred auth.Credential) ([]domain.Booking, error)
	GetBooking(ctx context.Context, cred auth.Credential, bookingID string) (*domain.Booking, error)
	ListProviderBookings(ctx context.Context, cred auth.Credential) ([]domain.Booking, error)
	AcceptBooking(ctx context.Context, cred auth.Credential, bookingID string) error
	RejectBooking(ctx context.Context, cred auth.Credential, bookingID string) error
	Login(ctx context.Context, email, password string) (*domain.Tokens, error)
}

type bookingClient struct {
	rl         ratelimit.Limiter
	config     config.APIConfig
	baseURL    string
	httpClient *resty.Client
	now        func() time.Time
}

func NewBookingClient(cfg config.APIConfig) BookingClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &bookingClient{
		rl:         rl,
		config:     cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
		now:        time.Now,
	}
}

func (c *bookingClient) GetCatalog(ctx context.Context, cred auth.Credential) ([]domain.Category, error) {
	resp, err := c.send(ctx, &cred, http.MethodGet, c.config.Paths.Catalog, "", nil)
	if err != nil {
		return nil, err
	}

	categories, err := decodeEnvelope[[]domain.Category](resp)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return nil, fmt.Errorf("%w: catalog data absent", ErrMalformedResponse)
	}

	log.Debugf("Fetched catalog with %d categories", len(*categories))
	return *categories, nil
}

func (c *bookingClient) CreateBooking(ctx context.Context, cred auth.Credential, req *domain.CreateBookingRequest) (*domain.CreatedBooking, error) {
	resp, err := c.send(ctx, &cred, http.MethodPost, c.config.Paths.Bookings, "", req)
	if err != nil {
		return nil, err
	}

	created, err := decodeEnvelope[domain.CreatedBooking](resp)
	if err != nil {
		return nil, err
	}
	if created == nil {
		log.Warnf("⚠️ Booking created but response carried no booking id")
		return &domain.CreatedBooking{}, nil
	}

	return created, nil
}

func (c *bookingClient) ListMyBookings(ctx context.Context, cred auth.Credential) ([]domain.Booking, error) {
	return c.listBookings(ctx, cred, c.config.Paths.MyBookings)
}

func (c *bookingClient) ListProviderBookings(ctx context.Context, cred auth.Credential) ([]domain.Booking, error) {
	return c.listBookings(ctx, cred, c.config.Paths.ProviderBookings)
}

func (c *bookingClient) listBookings(ctx context.Context, cred auth.Credential, path string) ([]domain.Booking, error) {
	resp, err := c.send(ctx, &cred, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	bookings, err := decodeEnvelope[[]domain.Booking](resp)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return *bookings, nil
}

func (c *bookingClient) GetBooking(ctx context.Context, cred auth.Credential, bookingID string) (*domain.Booking, error) {
	resp, err := c.send(ctx, &cred, http.MethodGet, c.config.Paths.Booking, bookingID, nil)
	if err != nil {
		return nil, err
	}

	booking, err := decodeEnvelope[domain.Booking](resp)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}
	return booking, nil
}

func (c *bookingClient) AcceptBooking(ctx context.Context, cred auth.Credential, bookingID string) error {
	return c.postAction(ctx, cred, c.config.Paths.Accept, bookingID)
}

func (c *bookingClient) RejectBooking(ctx context.Context, cred auth.Credential, bookingID string) error {
	return c.postAction(ctx, cred, c.config.Paths.Reject, bookingID)
}

func (c *bookingClient) postAction(ctx context.Context, cred auth.Credential, path, bookingID string) error {
	resp, err := c.send(ctx, &cred, http.MethodPost, path, bookingID, struct{}{})
	if err != nil {
		return err
	}

	_, err = decodeEnvelope[json.RawMessage](resp)
	return err
}

func (c *bookingClient) Login(ctx context.Context, email, password string) (*domain.Tokens, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.send(ctx, nil, http.MethodPost, c.config.Paths.Login, "", body)
	if err != nil {
		return nil, err
	}

	result, err := decodeEnvelope[domain.LoginResult](resp)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no access token", ErrMalformedResponse)
	}
	return &result.Tokens, nil
}

func (c *bookingClient) endpoint(path, bookingID string) string {
	if bookingID != "" {
		path = strings.ReplaceAll(path, "{id}", url.PathEscape(bookingID))
	}
	return c.baseURL + path
}

// send issues one request. A nil cred marks an unauthenticated call; otherwise
// the credential must validate before anything goes on the wire.
func (c *bookingClient) send(ctx context.Context, cred *auth.Credential, method, path, bookingID string, body any) (*resty.Response, error) {
	if cred != nil {
		if err := cred.Validate(c.now()); err != nil {
			return nil, err
		}
	}

	c.rl.Take()

	requestID := uuid.NewString()
	endpoint := c.endpoint(path, bookingID)

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID)
	if cred != nil {
		req.SetAuthToken(cred.Token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	log.Debugf("%s %s (request %s)", method, endpoint, requestID)

	var (
		resp *resty.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = req.Get(endpoint)
	case http.MethodPost:
		resp, err = req.Post(endpoint)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: request cancelled: %w", domain.ErrNetwork, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, endpoint, err)
	}

	return resp, nil
}

// decodeEnvelope checks the status and the {success, data} envelope of resp.
// A nil result with a nil error means the envelope succeeded without data.
func decodeEnvelope[T any](resp *resty.Response) (*T, error) {
	body := resp.String()

	if resp.IsError() {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    describeBody(resp.Header().Get("Content-Type"), body),
		}
	}

	var envelope domain.Envelope[T]
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if envelope.Success == nil {
		return nil, fmt.Errorf("%w: success flag absent", ErrMalformedResponse)
	}
	if !envelope.OK() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: envelope.Message}
	}

	return envelope.Data, nil
}
