package main

import (
	"context"
	"fmt"
	"os"

	"github.com/commis-dev/commis/internal/client/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
