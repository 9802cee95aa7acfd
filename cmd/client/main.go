package main

import "qbsync/cmd/client/cmd"

func main() {
	cmd.Execute()
}
