package main

import (
	"os"

	"github.com/IamTheFij/release-gitter/internal/cli/commands"
)

var Version = "dev"

func main() {
	os.Exit(commands.Execute(Version))
}
