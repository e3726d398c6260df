package main

import (
	"os"

	"snapgram-backend/cmd"
)

func main() {
	cmd.Run(os.Args[1:])
}
