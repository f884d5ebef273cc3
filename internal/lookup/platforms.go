package lookup

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// defaultPlatforms is the built-in master list of platform triples. A
// declaration may mark any subset as supported or unsupported, but a key
// outside this list is a validation failure, which is how typos in platform
// names get caught.
var defaultPlatforms = []string{
	"aarch64-apple-darwin",
	"aarch64-unknown-linux-gnu",
	"aarch64-unknown-linux-musl",
	"armv7-unknown-linux-gnueabihf",
	"armv7-unknown-linux-musleabihf",
	"x86_64-apple-darwin",
	"x86_64-pc-windows-msvc",
	"x86_64-unknown-linux-gnu",
	"x86_64-unknown-linux-musl",
}

// Platforms is the master platform list injected into the validator.
type Platforms struct {
	known map[string]struct{}
}

// DefaultPlatforms returns the built-in master list.
func DefaultPlatforms() *Platforms {
	return newPlatforms(defaultPlatforms)
}

// LoadPlatforms reads a master list from a plain text file, one platform
// triple per line. Blank lines and '#' comments are skipped.
func LoadPlatforms(path string) (*Platforms, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open platforms file: %w", err)
	}
	defer f.Close()

	var triples []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		triples = append(triples, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read platforms file %s: %w", path, err)
	}
	if len(triples) == 0 {
		return nil, fmt.Errorf("platforms file %s lists no platforms", path)
	}
	return newPlatforms(triples), nil
}

func newPlatforms(triples []string) *Platforms {
	known := make(map[string]struct{}, len(triples))
	for _, t := range triples {
		known[t] = struct{}{}
	}
	return &Platforms{known: known}
}

// Known reports whether key appears in the master list.
func (p *Platforms) Known(key string) bool {
	_, ok := p.known[key]
	return ok
}

// List returns the master list sorted.
func (p *Platforms) List() []string {
	triples := make([]string, 0, len(p.known))
	for t := range p.known {
		triples = append(triples, t)
	}
	sort.Strings(triples)
	return triples
}
