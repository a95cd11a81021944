package main

import "github.com/grafolab/grafo/cmd"

func main() {
	cmd.Execute()
}
