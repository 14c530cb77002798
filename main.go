package main

import "memorabilia-auction/internal/cli"

func main() {
	cli.Execute()
}
