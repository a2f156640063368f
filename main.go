package main

import "github.com/tanq16/chessdl/cmd"

func main() {
	cmd.Execute()
}
