// Package config loads glitchnav configuration from local and global YAML
// files with precedence rules. It is internal; CLI code maps flags and files
// into engine settings.
package config
