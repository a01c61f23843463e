// tarlactl works on a tarlatakip database directly, without the server.
// Usage: tarlactl --db tarlatakip.db <command> [options]
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
