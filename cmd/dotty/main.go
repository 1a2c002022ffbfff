package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotty/internal/cli"
	"github.com/arthur-debert/dotty/pkg/errors"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", errors.UserMessage(err))
		os.Exit(errors.ExitCode(err))
	}
}
