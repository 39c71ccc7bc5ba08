package main

import (
	"netlab/internal/cli/cmd"
)

func main() {
	cmd.Execute()
}
