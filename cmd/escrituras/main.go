package main

import (
	"context"
	"os"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Stderr))
}
