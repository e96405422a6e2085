package main

import "github.com/naka-gawa/repodash/cmd"

func main() {
	cmd.Execute()
}
