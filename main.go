package main

import "github.com/KaramelBytes/showloom-cli/cmd"

func main() {
	cmd.Execute()
}
