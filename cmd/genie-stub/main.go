package main

import (
	"flag"
	"log"

	"github.com/futig/genie-client/internal/builder"
)

func main() {
	environment := flag.String("env", "local", "environment name, selects .env.<env>")
	flag.Parse()

	app, err := builder.Build(*environment)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("Application error:", err)
	}
}
