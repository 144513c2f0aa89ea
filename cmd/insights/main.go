package main

import "github.com/pageza/alchemorsel-insights/backend/internal/cli"

func main() {
	cli.Execute()
}
