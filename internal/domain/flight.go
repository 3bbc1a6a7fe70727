package domain

import "context"

// FlightStatus is the observed state of a flight as reported by the
// flight-status collaborator.
type FlightStatus struct {
	FlightNumber          string
	Airline               string
	DepartureAirport      string
	ArrivalAirport        string
	DepartureDelayMinutes int
	ArrivalDelayMinutes   int
	Status                string
	DataSource            string
}

// FlightStatusProvider looks up the observed status of a flight on a date.
type FlightStatusProvider interface {
	GetFlightStatus(ctx context.Context, flightNumber, flightDate string) (FlightStatus, error)
}
