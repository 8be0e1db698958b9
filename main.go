package main

import "commitnotes/cmd"

func main() {
	cmd.Execute()
}
