package main

import "github.com/user/pagekeep/internal/cli"

func main() {
	cli.Execute()
}
