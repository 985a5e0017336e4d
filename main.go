package main

import (
	"os"

	"github.com/shandysiswandi/coursebell/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
