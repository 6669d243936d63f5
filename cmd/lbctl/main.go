package main

import "github.com/mcoot/leaderboard-go/internal/cli"

func main() {
	cli.Execute()
}
