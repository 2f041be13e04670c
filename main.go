package main

import (
	"github.com/scribe-app/scribe/app"
)

func main() {
	app.New(nil).Run()
}
