package main

import "nonstop-pack/internal/cli"

func main() {
	cli.Execute()
}
