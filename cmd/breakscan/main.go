package main

import "github.com/mvp-joe/breakscan/internal/cli"

func main() {
	cli.Execute()
}
