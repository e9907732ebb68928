package main

import "github.com/the-dev-tools/todolist/internal/cmd"

func main() {
	cmd.Execute()
}
