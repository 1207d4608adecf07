// This file provides a color provider implementation for use with the
// errors package.
package cli

import apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"

// Ensure CLIColorProvider implements apperrors.ColorProvider at compile time.
var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider implements apperrors.ColorProvider using the CLI theme
// functions, so error rendering follows the active color scheme.
type CLIColorProvider struct{}

// Yellow returns the yellow color code from the current CLI theme.
func (c CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset returns the reset color code from the current CLI theme.
func (c CLIColorProvider) Reset() string { return ColorReset() }
