package main

import (
	"fmt"
	"os"

	"checkbox-fiscalizer/internal"
)

func main() {
	if err := internal.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
