package main

import "bxfferoverflow.me/no-comment/cmd"

func main() {
	cmd.Execute()
}
