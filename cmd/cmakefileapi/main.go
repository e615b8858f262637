package main

import (
	"os"

	"cmakefileapi/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Run(os.Args[1:]))
}
