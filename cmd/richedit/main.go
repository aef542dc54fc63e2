package main

import (
	"flag"
	"fmt"
	"os"

	"richedit/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "YAML config with the input script")
	input := flag.String("in", "", "HTML fragment to edit")
	output := flag.String("out", "", "file to write the edited HTML to (default stdout)")
	preview := flag.Bool("preview", false, "draw a terminal preview on stderr")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg := app.DefaultConfig()
	if *configPath != "" {
		loaded, err := app.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "richedit: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *preview {
		cfg.Preview = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "richedit: %v\n", err)
		return 2
	}
	defer log.Sync()

	application, err := app.New(cfg, app.Options{Logger: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "richedit: %v\n", err)
		return 2
	}
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "richedit failed: %v\n", err)
		return 1
	}
	return 0
}
