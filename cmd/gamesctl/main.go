// Package main is the operator CLI: local dev server and table seeding.
package main

import "github.com/pricofy/games-api/internal/cli"

func main() {
	cli.Execute()
}
