// Package orbit provides the orbital-state side of the interlink engine:
// two-line element handling and SGP4 position propagation.
//
// Propagation is exposed through a capability interface so the analysis
// engine can be tested against deterministic stubs; the production
// implementation wraps github.com/joshuaferrara/go-satellite.
package orbit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"
)

// Elements holds one satellite's raw two-line element set plus a display
// name. The element lines are treated as opaque here beyond basic format
// checks; full validity is the propagation model's concern.
type Elements struct {
	Name  string
	Line1 string
	Line2 string
}

// Validate performs structural format checks on the element lines.
// This catches garbage before it reaches the SGP4 libraries, some of which
// do not fail gracefully on malformed input.
func (e Elements) Validate() error {
	line1 := strings.TrimSpace(e.Line1)
	line2 := strings.TrimSpace(e.Line2)

	if line1 == "" || line2 == "" {
		return fmt.Errorf("%w: missing element line", ErrInvalidElements)
	}
	if len(line1) != 69 {
		return fmt.Errorf("%w: line1 length %d, expected 69", ErrInvalidElements, len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("%w: line2 length %d, expected 69", ErrInvalidElements, len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("%w: line1 must start with '1', got %q", ErrInvalidElements, line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("%w: line2 must start with '2', got %q", ErrInvalidElements, line2[0])
	}
	return nil
}

// Info summarises a parsed element set for display and validation responses.
type Info struct {
	Name    string    `json:"name"`
	NoradID int       `json:"norad_id"`
	Epoch   time.Time `json:"epoch"`
}

// ErrInvalidElements marks element sets that fail structural validation or
// parsing. Callers treat it as non-retryable bad input.
var ErrInvalidElements = errors.New("invalid orbital elements")

// Describe fully parses the element set and returns its catalog metadata.
// Unlike Validate, this runs the complete TLE field and checksum parse, so
// it is the authoritative validity check for the validate-tle endpoint.
func Describe(e Elements) (Info, error) {
	if err := e.Validate(); err != nil {
		return Info{}, err
	}

	name := e.Name
	if name == "" {
		name = "UNKNOWN"
	}
	group := name + "\n" + strings.TrimSpace(e.Line1) + "\n" + strings.TrimSpace(e.Line2)

	tle, err := sgp4.ParseTLE(group)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidElements, err)
	}

	epoch, err := parseEpoch(strings.TrimSpace(e.Line1))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidElements, err)
	}

	return Info{
		Name:    name,
		NoradID: tle.SatelliteNumber,
		Epoch:   epoch,
	}, nil
}

// parseEpoch decodes the epoch field of line 1 (columns 19-32): a two-digit
// year followed by a fractional day of year. Years below 57 are in the
// 2000s, per the standard pivot.
func parseEpoch(line1 string) (time.Time, error) {
	field := strings.TrimSpace(line1[18:32])

	yy, err := strconv.Atoi(field[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch year: %v", err)
	}
	doy, err := strconv.ParseFloat(field[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch day: %v", err)
	}
	if doy < 1 || doy >= 367 {
		return time.Time{}, fmt.Errorf("epoch day %v out of range", doy)
	}

	year := yy + 2000
	if yy >= 57 {
		year = yy + 1900
	}

	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return jan1.Add(time.Duration((doy - 1) * 24 * float64(time.Hour))), nil
}
