package main

import "github.com/flockwood/Offside-Tool/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
