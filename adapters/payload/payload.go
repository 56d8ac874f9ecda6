// Package payload turns a simulated dataset into the data file an external
// model-fitting tool reads: scalars N, R, C and the aligned arrays ii, jj, y.
package payload

import (
	"fmt"
	"path/filepath"
	"strings"

	"simcross/internal/crosssim"
	"simcross/internal/errors"
)

// Payload is the interchange record. Indices are 1-based.
type Payload struct {
	N  int       `json:"N"`
	R  int       `json:"R"`
	C  int       `json:"C"`
	II []int     `json:"ii"`
	JJ []int     `json:"jj"`
	Y  []float64 `json:"y"`
}

// FromDataset builds the payload of ds. The slices are shared, not copied.
func FromDataset(ds *crosssim.SimulatedDataset) Payload {
	return Payload{
		N:  ds.N,
		R:  ds.R,
		C:  ds.C,
		II: ds.RowIndex,
		JJ: ds.ColIndex,
		Y:  ds.Value,
	}
}

// Validate checks that the arrays agree with N and stay inside [1,R]/[1,C].
func (p Payload) Validate() error {
	if len(p.II) != p.N || len(p.JJ) != p.N || len(p.Y) != p.N {
		return errors.InvalidInput(fmt.Sprintf("payload arrays have lengths %d/%d/%d, want N=%d",
			len(p.II), len(p.JJ), len(p.Y), p.N))
	}
	for n := range p.II {
		if p.II[n] < 1 || p.II[n] > p.R {
			return errors.InvalidInput(fmt.Sprintf("ii[%d]=%d outside [1,%d]", n, p.II[n], p.R))
		}
		if p.JJ[n] < 1 || p.JJ[n] > p.C {
			return errors.InvalidInput(fmt.Sprintf("jj[%d]=%d outside [1,%d]", n, p.JJ[n], p.C))
		}
	}
	return nil
}

// Format names a payload encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatRDump Format = "rdump"
)

// ParseFormat accepts "json" and "rdump" (or "r"), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "rdump", "r":
		return FormatRDump, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unsupported payload format %q (want json or rdump)", s))
	}
}

// FormatForPath infers the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".r", ".rdump":
		return FormatRDump
	default:
		return FormatJSON
	}
}
