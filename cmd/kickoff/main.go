package main

import "github.com/mcoot/kickoff/internal/cli"

func main() {
	cli.Execute()
}
