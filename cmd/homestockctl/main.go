package main

import "github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd"

func main() {
	cmd.Execute()
}
