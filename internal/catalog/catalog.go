package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DemoSource selects the embedded demo catalog.
const DemoSource = "demo"

// maxCatalogBytes bounds remote catalog downloads.
const maxCatalogBytes = 32 << 20

// ErrDuplicateRegion is returned when two regions share an id.
var ErrDuplicateRegion = errors.New("duplicate region id")

// Region is one labelled map region. Path holds SVG path data.
type Region struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Load reads a catalog from a file path, "-" for stdin, an http(s) URL, or
// DemoSource. It returns either every region or an error, never a partial
// list.
func Load(ctx context.Context, source string) ([]Region, error) {
	switch {
	case source == "" || source == DemoSource:
		return Demo()
	case source == "-":
		return Decode(os.Stdin)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetch(ctx, source)
	}

	b, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

func fetch(ctx context.Context, rawURL string) ([]Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return Parse(b)
}

// Decode reads and parses a catalog document from r.
func Decode(r io.Reader) ([]Region, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse validates raw JSON against the catalog schema and decodes it.
func Parse(raw []byte) ([]Region, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	var regions []Region
	if err := json.Unmarshal(raw, &regions); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRegion, r.ID)
		}
		seen[r.ID] = true
	}
	return regions, nil
}

// Write encodes regions as an indented JSON catalog.
func Write(w io.Writer, regions []Region) error {
	if regions == nil {
		regions = []Region{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(regions); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Shuffle randomises region order in place (Fisher-Yates).
func Shuffle(regions []Region, rng *rand.Rand) {
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(regions), func(i, j int) {
		regions[i], regions[j] = regions[j], regions[i]
	})
}

// IDs returns region identifiers in order.
func IDs(regions []Region) []string {
	ids := make([]string, len(regions))
	for i, r := range regions {
		ids[i] = r.ID
	}
	return ids
}

// DisplayName turns a region id into a label, replacing underscores with
// spaces ("Lake_of_the_Woods" → "Lake of the Woods").
func DisplayName(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

// Name derives a short label for a catalog source: the file or URL base
// name without extension, "stdin" for "-", and DemoSource for the demo.
func Name(source string) string {
	switch {
	case source == "" || source == DemoSource:
		return DemoSource
	case source == "-":
		return "stdin"
	}

	base := filepath.Base(source)
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		base = path.Base(u.Path)
		if base == "/" || base == "." {
			base = u.Host
		}
	}
	if name := strings.TrimSuffix(base, path.Ext(base)); name != "" {
		return name
	}
	return base
}
