package main

import "github.com/capdeco/capdeco/cmd/capdeco/commands"

func main() {
	commands.Execute()
}
