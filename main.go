package main

import (
	"os"

	"github.com/cancha-platform/cancha-admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
