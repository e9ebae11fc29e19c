package main

import "github.com/philipparndt/paramexport/internal/cmd"

func main() {
	cmd.Parse()
}
