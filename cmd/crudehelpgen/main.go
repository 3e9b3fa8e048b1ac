package main

import "github.com/RetroMaximus/crudehelpgen/internal/cli"

func main() {
	cli.Execute()
}
