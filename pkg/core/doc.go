// Package core provides a small, stable facade over glitchnav's scramble
// engine for programs that want the effect without the CLI or TUI.
//
// Example:
//
//	frames, err := core.Frames("HOME", core.DefaultConfig())
//	if err != nil { /* handle */ }
//	for _, f := range frames { fmt.Println(f) }
package core
