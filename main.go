package main

import "github.com/bravo-wd/BasicTS/cmd"

func main() {
	cmd.Execute()
}
