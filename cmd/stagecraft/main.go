// Package main is the single-binary entrypoint for Stagecraft.
package main

import "github.com/stagecraft-app/stagecraft/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
