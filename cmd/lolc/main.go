package main

import (
	"fmt"
	"os"

	"github.com/kthxbye/lolc/pkg/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	cli.Execute()
}
