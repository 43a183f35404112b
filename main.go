package main

import "github.com/papapumpkin/tattva/cmd"

func main() {
	cmd.Execute()
}
