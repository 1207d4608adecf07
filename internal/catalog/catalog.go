// Package catalog loads the algorithm survey data: named problems, each
// carrying classical and quantum algorithm variants with their published
// cost formulas. Formulas are normalized into the engine dialect at load
// time; variants whose notation cannot be normalized stay listed but are
// marked unavailable.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
)

//go:embed default.json
var defaultData []byte

// Variant is one algorithm for a problem, with its cost formulas already in
// engine notation.
type Variant struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Reference      string `json:"reference"`
	Parallel       bool   `json:"parallel"`
	Available      bool   `json:"available"`
	RuntimeFormula string `json:"runtimeFormula"`
	WorkFormula    string `json:"workFormula"`
	Note           string `json:"note,omitempty"`
}

// Problem groups the variants competing on one computational problem.
type Problem struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	QubitMapping string    `json:"qubitMapping"`
	Classical    []Variant `json:"classical"`
	Quantum      []Variant `json:"quantum"`
}

// Catalog is an immutable, keyed problem collection.
type Catalog struct {
	problems []Problem
	byKey    map[string]int
}

// rawVariant is the on-disk variant form, with formulas in published notation.
type rawVariant struct {
	Name     string `json:"name"`
	Variant  string `json:"variant"`
	Runtime  string `json:"runtime"`
	Work     string `json:"work"`
	Source   string `json:"source"`
	Parallel bool   `json:"parallel"`
}

type rawProblem struct {
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	QubitMapping string       `json:"qubitMapping"`
	Classical    []rawVariant `json:"classical"`
	Quantum      []rawVariant `json:"quantum"`
}

var keySlug = regexp.MustCompile(`[^a-z0-9]+`)

const (
	maxNameLen = 80
	maxDescLen = 150
)

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// buildVariant normalizes one raw variant. Missing work formulas are derived
// from the runtime: sequential classical work equals runtime, parallel
// classical work is the runtime without its /p divisor, and quantum work is
// runtime times the qubit count.
func buildVariant(raw rawVariant, index int, quantum bool) Variant {
	runtime, runtimeOK := expr.Normalize(raw.Runtime)
	work, workOK := expr.Normalize(raw.Work)

	// Normalization is heuristic, so a rewritten formula can still fall
	// outside the engine grammar. Such variants stay listed but unavailable.
	if runtimeOK {
		if _, err := expr.Compile(runtime); err != nil {
			runtimeOK = false
		}
	}
	if workOK {
		if _, err := expr.Compile(work); err != nil {
			workOK = false
		}
	}

	if runtimeOK && !workOK {
		if quantum {
			work = expr.DeriveQuantumWork(runtime)
		} else {
			work = expr.DeriveClassicalWork(runtime, raw.Parallel)
		}
		workOK = true
	}

	desc := truncate(raw.Variant, maxDescLen)
	if desc == "" {
		desc = "Algorithm variant"
	}

	v := Variant{
		Key:            fmt.Sprintf("%s-%d", truncate(keySlug.ReplaceAllString(strings.ToLower(raw.Name), "-"), 50), index),
		Name:           truncate(raw.Name, maxNameLen),
		Description:    desc,
		Reference:      fmt.Sprintf("Source: %s - %s", raw.Source, raw.Variant),
		Parallel:       raw.Parallel,
		Available:      runtimeOK && workOK,
		RuntimeFormula: runtime,
		WorkFormula:    work,
	}
	if !v.Available {
		v.Note = fmt.Sprintf("formula unavailable - original: %s", truncate(raw.Runtime, 50))
	}
	return v
}

// Parse decodes and normalizes a problem catalog from r. Problems missing
// either a classical or a quantum variant list are skipped with a warning,
// matching the survey ingestion behavior.
func Parse(r io.Reader) (*Catalog, error) {
	var raws []rawProblem
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, apperrors.NewConfigError("decoding catalog: %v", err)
	}

	c := &Catalog{byKey: make(map[string]int)}
	for _, rp := range raws {
		if len(rp.Classical) == 0 || len(rp.Quantum) == 0 {
			log.Warn().Str("problem", rp.Name).
				Int("classical", len(rp.Classical)).
				Int("quantum", len(rp.Quantum)).
				Msg("skipping problem without both variant lists")
			continue
		}
		key := rp.Key
		if key == "" {
			key = keySlug.ReplaceAllString(strings.ToLower(rp.Name), "-")
		}
		if _, dup := c.byKey[key]; dup {
			return nil, apperrors.NewConfigError("duplicate problem key %q", key)
		}

		p := Problem{
			Key:          key,
			Name:         rp.Name,
			QubitMapping: rp.QubitMapping,
		}
		for i, rv := range rp.Classical {
			p.Classical = append(p.Classical, buildVariant(rv, i, false))
		}
		for i, rv := range rp.Quantum {
			p.Quantum = append(p.Quantum, buildVariant(rv, i, true))
		}

		c.byKey[key] = len(c.problems)
		c.problems = append(c.problems, p)
	}

	if len(c.problems) == 0 {
		return nil, apperrors.NewConfigError("catalog contains no usable problems")
	}
	return c, nil
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultData))
}

// Load reads a catalog from the given path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError("opening catalog file %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Problems returns all problems in load order.
func (c *Catalog) Problems() []Problem {
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

// Problem looks up a problem by key.
func (c *Catalog) Problem(key string) (Problem, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Problem{}, false
	}
	return c.problems[i], true
}

// Keys returns the sorted problem keys.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.byKey))
	for k := range c.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultClassical returns the first available classical variant.
func (p Problem) DefaultClassical() (Variant, bool) {
	return firstAvailable(p.Classical)
}

// DefaultQuantum returns the first available quantum variant.
func (p Problem) DefaultQuantum() (Variant, bool) {
	return firstAvailable(p.Quantum)
}

func firstAvailable(variants []Variant) (Variant, bool) {
	for _, v := range variants {
		if v.Available {
			return v, true
		}
	}
	return Variant{}, false
}
