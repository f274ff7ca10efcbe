package main

import "github.com/bjeber/docfind/internal/cli"

func main() {
	cli.Execute()
}
