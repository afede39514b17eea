// marknum assigns hierarchical chapter numbers to Markdown headings and
// section-scoped sequence numbers to figures and tables, writing the
// rewritten files into a mirrored output directory.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/marknum/internal/config"
	"github.com/dgallion1/marknum/internal/pipeline"
	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("marknum", flag.ContinueOnError)
	configPath := flags.StringP("config", "c", "marknum.json", "config file (HuJSON: comments allowed)")
	output := flags.StringP("output", "o", "", "output directory (overrides config)")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: marknum [flags] <input-dir>")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Flags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}
	inputDir := flags.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}
	if *output != "" {
		cfg.OutputDirectory = *output
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	runner := pipeline.NewRunner(cfg, log)
	sum, err := runner.Run(inputDir)
	if err != nil {
		log.Error("run failed", "error", err)
		return 1
	}

	fmt.Printf("processed %d file(s): %d completed, %d failed; output in %s\n",
		len(sum.Results), sum.Completed, sum.Failed, cfg.OutputDirectory)
	if sum.Completed == 0 {
		return 1
	}
	return 0
}
