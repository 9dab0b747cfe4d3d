// Command litedb creates and inspects SQLite schemas described in a
// .tables file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/satishbabariya/litedb/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
