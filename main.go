// Package main is the entry point for the poolstats CLI tool, which ranks
// hockey pool participants by the standings, head-to-head results and
// season history of the NHL teams they are assigned.
package main

import "github.com/pable/go-pool-stats/cmd"

func main() {
	cmd.Execute()
}
