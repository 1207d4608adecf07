package expr

import (
	"regexp"
	"strings"
)

// This file converts published asymptotic-cost notation (LaTeX-flavored
// O(...) expressions from the algorithm survey data) into the engine
// dialect. The rewrite is heuristic by design: formulas that still contain
// notation outside the restricted grammar after rewriting are rejected
// rather than guessed at.

// rejectBefore lists substrings that mark a formula as depending on
// parameters outside the n/p/q model. Such formulas are rejected up front.
var rejectBefore = []string{"M^a", "r(a)", "T_1", "TP", "B \\", "pi(", "under assumption"}

// rejectAfter lists notation that must not survive the rewrite.
var rejectAfter = []string{"\\", "_{", "under", "assumption", "o(1)"}

type rewriteRule struct {
	pattern *regexp.Regexp
	repl    string
}

// rewriteRules are applied in order. They mirror the upstream data
// pipeline's notation conversions: strip O/Omega/Theta wrappers, map exp and
// log variants onto e^ and log(x, e), convert brace-delimited powers and
// roots, then clean up leftovers.
var rewriteRules = []rewriteRule{
	{regexp.MustCompile(`O\((.*?)\)`), "${1}"},
	{regexp.MustCompile(`Omega\((.*?)\)`), "${1}"},
	{regexp.MustCompile(`Theta\((.*?)\)`), "${1}"},

	{regexp.MustCompile(`\\exp\s*\{([^}]+)\}`), "e^(${1})"},
	{regexp.MustCompile(`\\exp\s*\(([^)]+)\)`), "e^(${1})"},
	{regexp.MustCompile(`exp\s*\(([^)]+)\)`), "e^(${1})"},

	{regexp.MustCompile(`\\log\s*\{([^}]+)\}`), "log(${1}, e)"},
	{regexp.MustCompile(`\\log\s*\(([^)]+)\)`), "log(${1}, e)"},
	{regexp.MustCompile(`\\ln\s*\{([^}]+)\}`), "log(${1}, e)"},
	{regexp.MustCompile(`\\ln\s*\(([^)]+)\)`), "log(${1}, e)"},
	{regexp.MustCompile(`ln\(([^)]+)\)`), "log(${1}, e)"},
	{regexp.MustCompile(`ln n`), "log(n, e)"},
	{regexp.MustCompile(`log n`), "log(n, e)"},
	{regexp.MustCompile(`log\(n\)`), "log(n, e)"},

	{regexp.MustCompile(`\\sqrt\{([^}]+)\}`), "sqrt(${1})"},

	{regexp.MustCompile(`\^\{([^}]+)\}`), "^(${1})"},
	{regexp.MustCompile(`\\\{`), "("},
	{regexp.MustCompile(`\\\}`), ")"},

	{regexp.MustCompile(`\\`), ""},
	{regexp.MustCompile(`\s+`), " "},
}

var (
	dollarSigns   = regexp.MustCompile(`\$`)
	subexpInner   = regexp.MustCompile(`exp\(\((.+)\)\)`)
	lnVariants    = []*regexp.Regexp{regexp.MustCompile(`\\?ln\s+n`), regexp.MustCompile(`\(ln n\)`), regexp.MustCompile(`ln\s*n`)}
	parallelDiv   = regexp.MustCompile(`\s*/\s*p`)
	logNReplacers = []string{"log(n, e)", "(log(n, e))", "log(n, e)"}

	// implicitProduct matches two value tokens separated only by whitespace,
	// e.g. "n log(...)" or ") (". Published formulas use juxtaposition for
	// multiplication; the engine dialect requires an explicit operator.
	implicitProduct = regexp.MustCompile(`([0-9a-zA-Z_)])\s+([0-9a-zA-Z_(])`)
)

// makeProductsExplicit inserts " * " between juxtaposed value tokens.
// Applied repeatedly because matches may not overlap in a single pass
// ("a b c" needs two).
func makeProductsExplicit(formula string) string {
	for {
		rewritten := implicitProduct.ReplaceAllString(formula, "${1} * ${2}")
		if rewritten == formula {
			return rewritten
		}
		formula = rewritten
	}
}

// Normalize converts a published cost formula into the engine dialect.
// It reports ok=false for placeholder entries and for notation the
// restricted grammar cannot express.
//
// Parameters:
//   - raw: The formula as it appears in the source data.
//
// Returns:
//   - string: The formula in engine notation.
//   - bool: false if no usable formula could be produced.
func Normalize(raw string) (string, bool) {
	formula := strings.TrimSpace(raw)
	if _, bad := placeholders[formula]; bad {
		return "", false
	}

	formula = dollarSigns.ReplaceAllString(formula, "")

	// L_n[a, c] subexponential notation: only the exp((...)) body survives,
	// with natural logs rewritten into the dialect. The body capture is
	// greedy so nested parentheses inside it stay balanced.
	if strings.Contains(formula, "L_n[") || strings.Contains(formula, `L_n\[`) {
		match := subexpInner.FindStringSubmatch(formula)
		if match == nil {
			return "", false
		}
		inner := match[1]
		for i, re := range lnVariants {
			inner = re.ReplaceAllString(inner, logNReplacers[i])
		}
		return "e^(" + makeProductsExplicit(inner) + ")", true
	}

	for _, marker := range rejectBefore {
		if strings.Contains(formula, marker) {
			return "", false
		}
	}

	for _, rule := range rewriteRules {
		formula = rule.pattern.ReplaceAllString(formula, rule.repl)
	}
	formula = strings.TrimSpace(formula)

	for _, marker := range rejectAfter {
		if strings.Contains(formula, marker) {
			return "", false
		}
	}
	if formula == "" {
		return "", false
	}
	return makeProductsExplicit(formula), true
}

// DeriveClassicalWork returns the work formula for a classical algorithm
// whose runtime formula is known. Sequential work equals runtime; parallel
// work is the runtime with its /p divisor removed.
func DeriveClassicalWork(runtime string, parallel bool) string {
	if parallel {
		return parallelDiv.ReplaceAllString(runtime, "")
	}
	return runtime
}

// DeriveQuantumWork returns the work formula for a quantum algorithm whose
// runtime formula is known: each of q qubits is busy for the full runtime.
func DeriveQuantumWork(runtime string) string {
	return "(" + runtime + ") * q"
}
