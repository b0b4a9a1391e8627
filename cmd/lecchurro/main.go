package main

import "github.com/lecchurro/lecchurro/internal/cli"

func main() {
	cli.Main()
}
