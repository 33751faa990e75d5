package rmv

import (
	"context"
	"errors"
	"math"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/relay/pkg/apperror"
)

var (
	timeFormat = regexp.MustCompile(`^(0[0-9]|1[0-9]|2[0-3]):[0-5][0-9]$`)
	dateFormat = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})$`)
)

type TripQuery struct {
	OriginID      string
	DestinationID string
	Time          string
	Date          string
}

// Transport is a single leg of a journey
type Transport struct {
	Departure     *Station `json:"departure"`
	Arrival       *Station `json:"arrival"`
	DepartureDate string   `json:"departureDate"`
	DepartureTime string   `json:"departureTime"`
	ArrivalDate   string   `json:"arrivalDate"`
	ArrivalTime   string   `json:"arrivalTime"`
	Using         string   `json:"using"`
}

// TransportWay is a complete journey made of resolved legs
type TransportWay struct {
	Departure       *Station    `json:"departure"`
	Arrival         *Station    `json:"arrival"`
	DepartureDate   string      `json:"departureDate"`
	DepartureTime   string      `json:"departureTime"`
	ArrivalDate     string      `json:"arrivalDate"`
	ArrivalTime     string      `json:"arrivalTime"`
	Duration        string      `json:"duration,omitempty"`
	DurationMinutes int         `json:"durationMinutes,omitempty"`
	Using           []Transport `json:"using"`
}

func ValidTime(value string) bool {
	return timeFormat.MatchString(value)
}

func ValidDate(value string) bool {
	return dateFormat.MatchString(value)
}

// Validate checks the query in a fixed order and returns the resolved endpoints
func (q TripQuery) Validate(directory *Directory) (*Station, *Station, error) {
	if q.OriginID == "" || q.DestinationID == "" {
		return nil, nil, apperror.BadRequest("No origin or destination id provided")
	}

	if q.OriginID == q.DestinationID {
		return nil, nil, apperror.BadRequest("Origin and destination are the same")
	}

	origin, originErr := directory.FindByID(q.OriginID)
	destination, destinationErr := directory.FindByID(q.DestinationID)
	if originErr != nil || destinationErr != nil {
		return nil, nil, apperror.BadRequest("Origin or destination is invalid")
	}

	if q.Time != "" && !ValidTime(q.Time) {
		return nil, nil, apperror.BadRequest("Time format is incorrect")
	}

	if q.Date != "" && !ValidDate(q.Date) {
		return nil, nil, apperror.BadRequest("Date format is incorrect")
	}

	return origin, destination, nil
}

type Planner struct {
	Directory *Directory
	Fetcher   TripFetcher
}

func (p *Planner) Plan(ctx context.Context, query TripQuery) ([]TransportWay, error) {
	origin, destination, err := query.Validate(p.Directory)
	if err != nil {
		return nil, err
	}

	response, err := p.Fetcher.Trip(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperror.Internal("RMV API is not available", err)
	}

	return p.Assemble(origin, destination, response), nil
}

// Assemble reshapes the upstream trips. A trip is dropped as soon as one of its legs references an unknown station
func (p *Planner) Assemble(origin *Station, destination *Station, response *TripResponse) []TransportWay {
	ways := []TransportWay{}

	for _, trip := range response.Trips {
		way := TransportWay{
			Departure:     origin,
			Arrival:       destination,
			DepartureDate: trip.Origin.Date,
			DepartureTime: trip.Origin.Time,
			ArrivalDate:   trip.Destination.Date,
			ArrivalTime:   trip.Destination.Time,
			Using:         []Transport{},
		}

		if trip.Duration != "" {
			way.Duration = trip.Duration
			way.DurationMinutes = durationMinutes(trip.Duration)
		}

		for _, leg := range trip.LegList.Legs {
			legOrigin, originErr := p.Directory.FindByID(string(leg.Origin.ExtID))
			legDestination, destinationErr := p.Directory.FindByID(string(leg.Destination.ExtID))

			if originErr != nil || destinationErr != nil {
				log.Debug().
					Str("origin", string(leg.Origin.ExtID)).
					Str("destination", string(leg.Destination.ExtID)).
					Msg("Dropping trip with unknown leg station")
				way.Using = []Transport{}
				break
			}

			way.Using = append(way.Using, Transport{
				Departure:     legOrigin,
				Arrival:       legDestination,
				DepartureDate: leg.Origin.Date,
				DepartureTime: leg.Origin.Time,
				ArrivalDate:   leg.Destination.Date,
				ArrivalTime:   leg.Destination.Time,
				Using:         leg.Name,
			})
		}

		if len(way.Using) > 0 {
			ways = append(ways, way)
		}
	}

	return ways
}

func durationMinutes(value string) int {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		log.Debug().Err(err).Str("duration", value).Msg("Unparseable trip duration")
		return 0
	}

	reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Round(parsed.Shift(reference).Sub(reference).Minutes()))
}
