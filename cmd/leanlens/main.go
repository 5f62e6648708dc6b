// main holds the entry logic for the leanlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/leanlens/leanlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
