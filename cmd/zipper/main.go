package main

import (
	"os"

	"github.com/tinyzimmer/zipper/pkg/cmd"
	"github.com/tinyzimmer/zipper/pkg/log"
)

func main() {
	if err := cmd.GetRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
