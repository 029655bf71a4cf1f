package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Run(Config{Args: os.Args, Output: os.Stdout}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
