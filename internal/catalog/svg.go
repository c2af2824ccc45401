package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// skippedPrefixes mark decorative paths that are not regions.
var skippedPrefixes = []string{"outline", "background"}

// ExtractSVG collects every <path> element with a region id from an SVG
// document, in document order.
func ExtractSVG(r io.Reader) ([]Region, error) {
	dec := xml.NewDecoder(r)

	var regions []Region
	seen := make(map[string]bool)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "path" {
			continue
		}

		var id, d string
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "id":
				id = a.Value
			case "d":
				d = a.Value
			}
		}
		if !isRegionID(id) {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRegion, id)
		}
		seen[id] = true
		regions = append(regions, Region{ID: id, Path: d})
	}
	return regions, nil
}

func isRegionID(id string) bool {
	if id == "" {
		return false
	}
	for _, p := range skippedPrefixes {
		if strings.HasPrefix(id, p) {
			return false
		}
	}
	return true
}
