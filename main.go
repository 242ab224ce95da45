package main

import "github.com/bcaldwell/txreport/cmd"

func main() {
	cmd.Execute()
}
