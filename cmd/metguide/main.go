package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "metguide",
		Short:   "Met Guide — AI audio guide backend for The Metropolitan Museum of Art",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newToursCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
