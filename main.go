package main

import "palette-backend/internal/app"

func main() {
	app.Run()
}
