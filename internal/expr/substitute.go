package expr

import "strings"

// ReplaceVariable rewrites every free occurrence of varName in formula with
// the parenthesized replacement expression, respecting token boundaries:
// replacing "p" leaves "pi" untouched. The rest of the formula is preserved
// verbatim. If the replacement is already fully parenthesized it is inserted
// as-is, so replaceVariable("p + pi", "p", "(5)") yields "(5) + pi".
//
// Parameters:
//   - formula: The formula text to rewrite.
//   - varName: The variable token to replace.
//   - replacement: The sub-expression to substitute for the variable.
//
// Returns:
//   - string: The rewritten formula.
func ReplaceVariable(formula, varName, replacement string) string {
	if varName == "" {
		return formula
	}
	insert := replacement
	if !isParenthesized(replacement) {
		insert = "(" + replacement + ")"
	}

	var b strings.Builder
	b.Grow(len(formula))
	for i := 0; i < len(formula); {
		if strings.HasPrefix(formula[i:], varName) &&
			boundaryBefore(formula, i) &&
			boundaryAfter(formula, i+len(varName)) {
			b.WriteString(insert)
			i += len(varName)
			continue
		}
		b.WriteByte(formula[i])
		i++
	}
	return b.String()
}

// isIdentByte reports whether c can be part of an identifier token.
func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func boundaryBefore(s string, i int) bool {
	return i == 0 || !isIdentByte(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	return i >= len(s) || !isIdentByte(s[i])
}

// isParenthesized reports whether s is a single balanced group: it starts
// with '(' and its matching close parenthesis is the final byte.
func isParenthesized(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
