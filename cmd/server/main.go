package main

import "github.com/tuannha-ct/merch-bot/cmd"

func main() {
	cmd.Execute()
}
