package main

import "github.com/Saifullah3711/cac-multi-docs-mvp/cmd"

func main() {
	cmd.Execute()
}
