// Package glitchnav provides the command-line interface for glitchnav.
// It configures subcommands (run, reveal, links, config, completion), parses
// flags, resolves configuration layers and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/franzer/glitchnav/cmd/glitchnav"
//	func main() { glitchnav.Execute() }
package glitchnav
