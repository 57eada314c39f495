// Package main is the entry point for the bes CLI.
package main

import "bespec.dev/pkg/bespec/cmd"

func main() {
	cmd.Execute()
}
