// Command checkin runs the attendance check-in kiosk.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/checkin/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "checkin: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
