package main

import (
	"github.com/pixura/pixura-contracts/cmd"
)

func main() {
	cmd.Execute()
}
