package main

import "github.com/sadopc/cantinho/internal/cli"

func main() {
	cli.Execute()
}
