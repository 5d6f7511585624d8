package main

import "github.com/aviu16/mercury-bot/internal/cli"

func main() {
	cli.Execute()
}
