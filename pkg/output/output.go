// Package output prints feed sections for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/neofeed/neofeed/pkg/neo"
	"github.com/neofeed/neofeed/pkg/viewmodel"
)

// DefaultFlags prints date, id and name.
const DefaultFlags = "din"

const hazardPrefix = "[HAZARDOUS] "

// ValidateFlags reports the first unsupported output flag.
func ValidateFlags(flags string) error {
	if flags == "" {
		return fmt.Errorf("no output flags given")
	}
	for _, f := range flags {
		if !strings.ContainsRune("dinsmu", f) {
			return fmt.Errorf("invalid output flag %q (supported: d, i, n, s, m, u)", f)
		}
	}
	return nil
}

// PrintSections writes one line per object, sections in the order given.
// Potentially hazardous objects are prefixed with [HAZARDOUS] when
// markHazards is set.
func PrintSections(w io.Writer, sections []viewmodel.HomeSection, flags, delimiter string, markHazards bool) error {
	if err := ValidateFlags(flags); err != nil {
		return err
	}
	for _, s := range sections {
		date := neo.APIFormat(s.Date)
		for _, o := range s.Objects {
			line := createLine(o, date, flags, delimiter)
			if len(line) == 0 {
				continue
			}
			if markHazards && o.Hazardous() {
				line = hazardPrefix + line
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func createLine(o neo.NearEarthObject, date, flags, delimiter string) string {
	var line string
	for _, f := range flags {
		switch f {
		case 'd':
			line += date + delimiter
		case 'i':
			line += o.ID + delimiter
		case 'n':
			line += o.DisplayName() + delimiter
		case 's':
			line += o.ShortDescription() + delimiter
		case 'm':
			if h, ok := o.AbsoluteMagnitudeH.Get(); ok {
				line += fmt.Sprintf("%.2f", h)
			}
			line += delimiter
		case 'u':
			line += o.NasaJPLURL.Or("") + delimiter
		}
	}
	return strings.TrimSuffix(line, delimiter)
}

type jsonSection struct {
	Date    string                `json:"date"`
	Objects []neo.NearEarthObject `json:"objects"`
}

// WriteJSON writes sections as an indented JSON array.
func WriteJSON(w io.Writer, sections []viewmodel.HomeSection) error {
	out := make([]jsonSection, 0, len(sections))
	for _, s := range sections {
		out = append(out, jsonSection{Date: neo.APIFormat(s.Date), Objects: s.Objects})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// PrintRows writes the detail rows of one object as "title: detail".
func PrintRows(w io.Writer, title string, rows []viewmodel.Row) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", r.Title, r.Detail); err != nil {
			return err
		}
	}
	return nil
}
