package main

import "github.com/franzer/glitchnav/cmd/glitchnav"

func main() { glitchnav.Execute() }
