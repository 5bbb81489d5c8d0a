package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Location is a single campus directory entry. Its identity is its position
// in the sorted Directory; the backend guarantees no stable id.
type Location struct {
	Name    string  `json:"name" validate:"required"`
	Details string  `json:"details"`
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64 `json:"lon" validate:"gte=-180,lte=180"`
}

var locationValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports whether the location carries a name and in-range
// coordinates. Violations wrap ErrBadPayload.
func (l Location) Validate() error {
	if err := locationValidator.Struct(l); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
			}
		} else {
			fields = append(fields, err.Error())
		}
		return fmt.Errorf("%w: location %q: %s", ErrBadPayload, l.Name, strings.Join(fields, ", "))
	}
	return nil
}

// DetailText is the detail panel body: name, details, latitude and longitude
// on separate lines in that order.
func (l Location) DetailText() string {
	return l.Name + "\n" + l.Details +
		"\nLatitude: " + FormatCoord(l.Lat) +
		"\nLongitude: " + FormatCoord(l.Lon)
}

// DirectionsURL returns a Google Maps directions link ending at l.
func (l Location) DirectionsURL() string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%s,%s",
		FormatCoord(l.Lat), FormatCoord(l.Lon))
}

// Coordinates returns the location as a LatLng.
func (l Location) Coordinates() LatLng {
	return LatLng{Lat: l.Lat, Lon: l.Lon}
}

// LatLng is a geographic point.
type LatLng struct {
	Lat float64
	Lon float64
}

func (p LatLng) String() string {
	return FormatCoord(p.Lat) + ", " + FormatCoord(p.Lon)
}

// FormatCoord prints a coordinate in its shortest exact decimal form
// (1 rather than 1.000000).
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
