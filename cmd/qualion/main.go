package main

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/common"
)

// configPaths is a custom flag type allowing multiple -config flags.
type configPaths []string

func (c *configPaths) String() string { return fmt.Sprintf("%v", *c) }
func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	config *common.Config
	logger arbor.ILogger
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "analyze":
		runAnalyze(args)
	case "clean":
		runClean(args)
	case "rephrase":
		runRephrase(args)
	case "version", "-version", "--version":
		fmt.Printf("qualion version %s\n", common.GetVersion())
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: qualion <analyze|clean|rephrase> [flags]")
}

// setup loads configuration and initializes the logger in the order
// config -> logger -> banner. No CLI flag overrides are applied to the
// loaded configuration.
func setup(configFile string) (*common.Config, arbor.ILogger) {
	var err error
	paths := []string{}
	if configFile != "" {
		paths = append(paths, configFile)
	}

	config, err = common.LoadFromFiles(paths...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}

	logger = common.SetupLogger(config)
	common.PrintBanner(config, logger)
	return config, logger
}
