package main

import (
	"os"

	"github.com/clintjedwards/stepper/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil {
		os.Exit(1)
	}
}
