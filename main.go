package main

import "github.com/shandysiswandi/goprofile/internal/cli"

func main() {
	cli.Execute()
}
