package main

import "github.com/mintfolio/go-marketplace/cmd"

func main() {
	cmd.Execute()
}
