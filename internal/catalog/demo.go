package catalog

import _ "embed"

//go:embed demo.json
var demoJSON []byte

// Demo returns the embedded sixteen-region demo catalog.
func Demo() ([]Region, error) {
	return Parse(demoJSON)
}
