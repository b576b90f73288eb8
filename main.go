package main

import "volboot/cmd"

func main() {
	cmd.Execute()
}
