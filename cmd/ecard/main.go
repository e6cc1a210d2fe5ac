package main

import "github.com/ecardgame/ecard-server/internal/cli"

func main() {
	cli.Execute()
}
