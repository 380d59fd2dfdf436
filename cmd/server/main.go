package main

import "github.com/iliyamo/wedding-marketplace/internal/cli"

func main() {
	cli.Execute()
}
