package main

import "github.com/facekiosk/facekiosk/cmd"

func main() {
	cmd.Execute()
}
