// Package bookingapi adapts the external booking-platform REST API to the
// sync provider interface. The platform lists the salon's agenda publicly, so
// mirrored bookings keep marketplace availability honest.
package bookingapi

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

	appsync "salon_booking_backend/internal/sync"
	"salon_booking_backend/platform/apperr"
	"salon_booking_backend/platform/config"
	"salon_booking_backend/platform/logger"

	"golang.org/x/time/rate"
)

const ProviderName = "booking_platform"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

type bookingRequest struct {
	SalonID       string `json:"salonId"`
	ServiceName   string `json:"serviceName"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	StartsAt      string `json:"startsAt"`
	EndsAt        string `json:"endsAt"`
}

type bookingResponse struct {
	BookingID string `json:"bookingId"`
}

// NewClient returns nil when no booking platform is configured.
func NewClient(cfg config.BookingProviderConfig, log *logger.Logger) *Client {
	if !cfg.IsBookingProviderEnabled() {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetBookingAPIURL(), "/"),
		apiKey:  cfg.GetBookingAPIKey(),
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		log:     log,
	}
}

func (c *Client) Name() string { return ProviderName }

func (c *Client) CreateEvent(ctx context.Context, ev appsync.Event) (string, error) {
	var out bookingResponse
	if err := c.call(ctx, http.MethodPost, "/v1/bookings", newBookingRequest(ev), &out); err != nil {
		return "", err
	}
	if out.BookingID == "" {
		return "", apperr.Internal("booking platform returned empty booking id")
	}
	c.log.Debug("platform booking created", "booking_id", out.BookingID, "appointment_id", ev.AppointmentID.String())
	return out.BookingID, nil
}

func (c *Client) UpdateEvent(ctx context.Context, externalID string, ev appsync.Event) error {
	return c.call(ctx, http.MethodPut, "/v1/bookings/"+url.PathEscape(externalID), newBookingRequest(ev), nil)
}

func (c *Client) DeleteEvent(ctx context.Context, externalID string) error {
	return c.call(ctx, http.MethodDelete, "/v1/bookings/"+url.PathEscape(externalID), nil, nil)
}

func newBookingRequest(ev appsync.Event) *bookingRequest {
	return &bookingRequest{
		SalonID:       ev.SalonID.String(),
		ServiceName:   ev.ServiceName,
		CustomerName:  ev.CustomerName,
		CustomerPhone: ev.CustomerPhone,
		StartsAt:      ev.Start.Format(time.RFC3339),
		EndsAt:        ev.End.Format(time.RFC3339),
	}
}

func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal booking payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking platform request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return appsync.ErrEventNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return apperr.Unavailable(fmt.Sprintf("booking platform returned %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		data, _ := io.ReadAll(resp.Body)
		return apperr.BadRequest(fmt.Sprintf("booking platform rejected request (%d): %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode booking platform response: %w", err)
		}
	}
	return nil
}
