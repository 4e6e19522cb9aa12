package main

import (
	"log"

	"github.com/junsung-park97/matetrip-frontend-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
