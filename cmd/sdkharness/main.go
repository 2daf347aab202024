// Command sdkharness locates or installs the Android SDK and installs the packages
// an Android project needs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(" ✘ %s", err))
		stop()
		os.Exit(1)
	}
}
