package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "skeleton:", err)
		os.Exit(1)
	}
}
