// ABOUTME: Command line client for fetching a single social feed
// ABOUTME: Runs the cache-aside fetcher once and prints the posts as JSON

package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
