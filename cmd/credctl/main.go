package main

import "github.com/mcoot/drivecreds/internal/cli"

func main() {
	cli.Execute()
}
