package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/wtf-go/internal/infrastructure/cli"
)

func main() {
	root := cli.NewConfigCmd(cli.Options{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
