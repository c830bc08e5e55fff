package main

import "github.com/Tiliavir/babytime/cmd"

func main() {
	cmd.Execute()
}
