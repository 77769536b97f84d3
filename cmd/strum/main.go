package main

import "strum/internal/cli"

func main() {
	cli.Execute()
}
