package main

import "legis_rag/internal/cli"

func main() {
	cli.Execute()
}
