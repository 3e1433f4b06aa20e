package main

import "github.com/helena/scitutor/internal/commands"

func main() {
	commands.Execute()
}
