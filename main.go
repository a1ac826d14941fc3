// Package main is entrypoint for the application
package main

import (
	"fmt"

	"github.com/iSubhamMani/airwave/cmd"
)

func main() {
	cmd.Run()
	fmt.Println("airwave end")
}
