package main

import "github.com/andrescamacho/colonycraft-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
