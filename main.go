package main

import "github.com/crisdel29/siscontevolucion/cmd"

func main() {
	cmd.Execute()
}
