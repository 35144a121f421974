// Package googlecal adapts the external calendar provider's REST API to the
// sync provider interface.
package googlecal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salon_booking_backend/internal/domain"
	appsync "salon_booking_backend/internal/sync"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"

	"golang.org/x/time/rate"
)

// ProviderName keys this adapter in the registry and in stored external ids.
const ProviderName = "google_calendar"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

type eventRequest struct {
	CalendarID  string `json:"calendarId"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

type eventResponse struct {
	ID string `json:"id"`
}

// NewClient returns nil when no calendar provider is configured; a nil
// client must not be registered.
func NewClient(cfg config.CalendarProviderConfig, log *logger.Logger) *Client {
	if !cfg.IsCalendarProviderEnabled() {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetCalendarAPIURL(), "/"),
		apiKey:  cfg.GetCalendarAPIKey(),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		log:     log,
	}
}

func (c *Client) Name() string { return ProviderName }

func (c *Client) CreateEvent(ctx context.Context, ev appsync.Event) (string, error) {
	var out eventResponse
	if err := c.call(ctx, http.MethodPost, "/events", newEventRequest(ev), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", apperr.Internal("calendar returned empty event id")
	}
	c.log.Debug("calendar event created", "event_id", out.ID, "appointment_id", ev.AppointmentID.String())
	return out.ID, nil
}

func (c *Client) UpdateEvent(ctx context.Context, externalID string, ev appsync.Event) error {
	return c.call(ctx, http.MethodPut, "/events/"+url.PathEscape(externalID), newEventRequest(ev), nil)
}

func (c *Client) DeleteEvent(ctx context.Context, externalID string) error {
	return c.call(ctx, http.MethodDelete, "/events/"+url.PathEscape(externalID), nil, nil)
}

func newEventRequest(ev appsync.Event) *eventRequest {
	return &eventRequest{
		CalendarID:  ev.CalendarID,
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       ev.Start.Format(time.RFC3339),
		End:         ev.End.Format(time.RFC3339),
	}
}

type freeBusyRequest struct {
	CalendarID string `json:"calendarId"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type freeBusyResponse struct {
	Busy []struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"busy"`
}

// ListBusy returns intervals already taken on the linked calendar, so events
// created directly at the provider block local slots too.
func (c *Client) ListBusy(ctx context.Context, calendarID string, window domain.DateRange) ([]domain.DateRange, error) {
	payload := freeBusyRequest{
		CalendarID: calendarID,
		Start:      window.Start.Format(time.RFC3339),
		End:        window.End.Format(time.RFC3339),
	}

	var out freeBusyResponse
	if err := c.call(ctx, http.MethodPost, "/freeBusy", payload, &out); err != nil {
		return nil, err
	}

	busy := make([]domain.DateRange, 0, len(out.Busy))
	for _, interval := range out.Busy {
		if !interval.End.After(interval.Start) {
			continue
		}
		busy = append(busy, domain.DateRange{Start: interval.Start, End: interval.End})
	}
	return busy, nil
}

func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal calendar payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return appsync.ErrEventNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return apperr.Unavailable(fmt.Sprintf("calendar service returned %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		data, _ := io.ReadAll(resp.Body)
		return apperr.BadRequest(fmt.Sprintf("calendar rejected request (%d): %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode calendar response: %w", err)
		}
	}
	return nil
}
