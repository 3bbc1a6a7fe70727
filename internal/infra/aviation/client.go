package aviation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flarecover/internal/domain"
)

const defaultBaseURL = "http://api.aviationstack.com/v1"

// Client queries the AviationStack flights endpoint. When no API key is
// configured, or a lookup yields no rows, it falls back to the deterministic
// mock so verification flows stay usable end to end.
type Client struct {
	APIKey   string
	BaseURL  string
	HTTP     *http.Client
	Fallback domain.FlightStatusProvider
	Logger   *slog.Logger
}

type flightsResponse struct {
	Data []flightRecord `json:"data"`
}

type flightRecord struct {
	FlightStatus string `json:"flight_status"`
	Flight       struct {
		IATA string `json:"iata"`
	} `json:"flight"`
	Airline struct {
		Name string `json:"name"`
	} `json:"airline"`
	Departure endpointRecord `json:"departure"`
	Arrival   endpointRecord `json:"arrival"`
}

type endpointRecord struct {
	IATA  string `json:"iata"`
	Delay *int   `json:"delay"`
}

func (c *Client) GetFlightStatus(ctx context.Context, flightNumber, flightDate string) (domain.FlightStatus, error) {
	if c.APIKey == "" {
		return c.fallback(ctx, flightNumber, flightDate, errors.New("api key not configured"))
	}
	status, err := c.lookup(ctx, flightNumber, flightDate)
	if err != nil {
		return c.fallback(ctx, flightNumber, flightDate, err)
	}
	return status, nil
}

func (c *Client) lookup(ctx context.Context, flightNumber, flightDate string) (domain.FlightStatus, error) {
	query := url.Values{}
	query.Set("access_key", c.APIKey)
	query.Set("flight_iata", flightNumber)
	query.Set("flight_date", flightDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/flights?"+query.Encode(), nil)
	if err != nil {
		return domain.FlightStatus{}, err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return domain.FlightStatus{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.FlightStatus{}, fmt.Errorf("flights lookup returned status %d", resp.StatusCode)
	}

	var parsed flightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.FlightStatus{}, err
	}
	if len(parsed.Data) == 0 {
		return domain.FlightStatus{}, errors.New("no flight data returned")
	}
	return parseFlight(parsed.Data[0]), nil
}

func parseFlight(record flightRecord) domain.FlightStatus {
	status := record.FlightStatus
	if status == "" {
		status = "unknown"
	}
	return domain.FlightStatus{
		FlightNumber:          record.Flight.IATA,
		Airline:               record.Airline.Name,
		DepartureAirport:      record.Departure.IATA,
		ArrivalAirport:        record.Arrival.IATA,
		DepartureDelayMinutes: delayMinutes(record.Departure.Delay),
		ArrivalDelayMinutes:   delayMinutes(record.Arrival.Delay),
		Status:                status,
		DataSource:            "aviationstack",
	}
}

func delayMinutes(delay *int) int {
	if delay == nil || *delay < 0 {
		return 0
	}
	return *delay
}

func (c *Client) fallback(ctx context.Context, flightNumber, flightDate string, cause error) (domain.FlightStatus, error) {
	if c.Fallback == nil {
		return domain.FlightStatus{}, cause
	}
	if c.Logger != nil {
		c.Logger.Warn("flight status lookup failed, using mock data", "flight", flightNumber, "error", cause)
	}
	return c.Fallback.GetFlightStatus(ctx, flightNumber, flightDate)
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return defaultBaseURL
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}
