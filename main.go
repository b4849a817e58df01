package main

import "github.com/gaurav-prasanna/astropipe/cmd"

func main() {
	cmd.Execute()
}
