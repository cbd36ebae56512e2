package main

import "price-elasticity/internal/cli"

func main() {
	cli.Execute()
}
