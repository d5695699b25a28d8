package main

import "github.com/solidDoWant/logging-timer/cmd"

func main() {
	cmd.Execute()
}
