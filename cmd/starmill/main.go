// Package main provides the CLI for the starmill warehouse builder.
package main

import (
	"os"

	"github.com/leapstack-labs/starmill/internal/cli"

	// Register the warehouse store adapters.
	_ "github.com/leapstack-labs/starmill/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/starmill/pkg/adapters/postgres"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
