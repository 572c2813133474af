package main

import "github.com/alexiusacademia/etabsmc/cmd"

func main() {
	cmd.Execute()
}
