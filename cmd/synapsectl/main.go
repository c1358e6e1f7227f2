package main

import (
	"os"

	"github.com/synapsepay/go-synapse-client/cmd/synapsectl/commands"
)

func main() {
	commands.Execute(&commands.Writer{Out: os.Stdout, Err: os.Stderr})
}
