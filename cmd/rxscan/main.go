package main

import "github.com/meditrack/rxscan/cmd/rxscan/cmd"

func main() {
	cmd.Execute()
}
