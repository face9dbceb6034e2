package main

import "dat-workbench/cmd"

func main() {
	cmd.Execute()
}
