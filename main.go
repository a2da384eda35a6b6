package main

import "stash/cmd"

func main() {
	cmd.Execute()
}
