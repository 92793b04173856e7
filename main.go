// Package main is the entry point of codycli, a command-line client for the
// Sourcegraph Cody chat API.
package main

import "codycli/cmd"

func main() {
	cmd.Execute()
}
