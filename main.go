package main

import "storectl/cmd"

func main() {
	cmd.Execute()
}
