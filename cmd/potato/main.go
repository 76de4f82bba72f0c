package main

import "github.com/mcoot/potatofarm/internal/cli"

func main() {
	cli.Execute()
}
