package main

import (
	"fmt"
	"os"

	"github.com/talentsift/talentsift/cmd/talentsift"
)

func main() {
	if err := talentsift.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
