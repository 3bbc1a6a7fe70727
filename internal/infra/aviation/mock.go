package aviation

import (
	"context"
	"hash/fnv"

	"flarecover/internal/domain"
)

// Mock generates deterministic flight status from the flight number and
// date, matching the shape of real provider output.
type Mock struct{}

func (m *Mock) GetFlightStatus(ctx context.Context, flightNumber, flightDate string) (domain.FlightStatus, error) {
	delay := int(hashMod(flightNumber+flightDate, 120))
	delayed := delay > 15
	status := domain.FlightStatus{
		FlightNumber:     flightNumber,
		Airline:          "Mock Airline",
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		Status:           "scheduled",
		DataSource:       "mock",
	}
	if delayed {
		status.DepartureDelayMinutes = delay
		status.ArrivalDelayMinutes = delay
		status.Status = "delayed"
	}
	return status, nil
}

func hashMod(value string, mod uint32) uint32 {
	h := fnv.New32a()
	h.Write([]byte(value))
	return h.Sum32() % mod
}
