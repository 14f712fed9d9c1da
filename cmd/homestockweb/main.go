package main

import "github.com/devindaJJ/HomeStock-sub000/cmd/homestockweb/cmd"

func main() {
	cmd.Execute()
}
