package main

import "github.com/dotcommander/magis/cmd"

func main() {
	cmd.Execute()
}
