package main

import "github.com/neofeed/neofeed/cmd"

func main() {
	cmd.Execute()
}
