package main

import (
	"fmt"

	"github.com/pointW/rdd-rl/benchmarks"
)

// main entry point to the training and analysis commands
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
