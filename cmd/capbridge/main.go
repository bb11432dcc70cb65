package main

import (
	"log"
	"os"

	"github.com/viant/capbridge/host"
)

func main() {
	if err := host.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
