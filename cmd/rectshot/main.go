package main

import (
	"github.com/rectshot/rectshot/cmd/rectshot/commands"
)

func main() {
	commands.Execute()
}
