package main

import "github.com/KaramelBytes/smartetl-cli/cmd"

func main() {
	cmd.Execute()
}
