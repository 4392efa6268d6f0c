package main

import (
	"os"

	"github.com/texture-fi/price-proxy/cmd/priceproxy/command"
)

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
