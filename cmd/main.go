package main

import "visionary/internal/cli"

func main() {
	cli.Execute()
}
