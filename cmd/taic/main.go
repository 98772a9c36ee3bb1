package main

import "github.com/sarchlab/taic/cmd/taic/cmd"

func main() {
	cmd.Execute()
}
