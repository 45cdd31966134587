package main

import "github.com/msomdec/sentiment-board/internal/app"

func main() {
	app.Execute()
}
