package main

import "github.com/ValentinKolb/dState/cmd"

func main() {
	cmd.Execute()
}
