package main

import "ge-lookup/internal/cli"

func main() {
	cli.Execute()
}
