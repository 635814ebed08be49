package main

import "github.com/chrisdamba/freshsim/cmd"

func main() {
	cmd.Execute()
}
