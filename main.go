// Package main is the entry point for pagevault.
package main

import (
	"github.com/pagevault/pagevault/cmd"
	"github.com/pagevault/pagevault/config"
	"github.com/pagevault/pagevault/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
