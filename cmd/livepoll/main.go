package main

import (
	"fmt"
	"livepoll/internal/di"
	"livepoll/internal/structures"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to the yaml config file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "also log to the console")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "livepoll: %s\n", err)
		os.Exit(1)
	}
}
