package main

import (
	"log"

	"github.com/uniguide-ai/uniguide/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
