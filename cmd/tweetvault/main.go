package main

import (
	"os"

	"github.com/MrSnakeDoc/tweetvault/internal/cli"
	"github.com/MrSnakeDoc/tweetvault/internal/version"
)

func main() {
	if err := cli.Run(version.Version); err != nil {
		os.Exit(1)
	}
}
