package main

import "github.com/shubhamranswal/TechGuru/internal/cli"

func main() {
	cli.Execute()
}
