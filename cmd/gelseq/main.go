package main

import (
	"gelseq/internal/cli"
)

func main() {
	cli.Execute()
}
