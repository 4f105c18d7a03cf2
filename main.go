package main

import (
	"github.com/shelfscan/shelfscan/cmd"
)

func main() {
	cmd.Execute()
}
