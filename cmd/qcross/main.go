// Command qcross estimates when quantum algorithms overtake classical ones:
// the crossover problem size, the equivalent cost crossover, and the year
// projected hardware first reaches that size.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MIT-FutureTech/quantum-framework/internal/app"
	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

func main() {
	os.Exit(run())
}

// run wraps the application lifecycle so deferred cleanup executes before
// os.Exit.
func run() int {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), os.Stdout)
}
