package cliapp

import (
	"flag"
	"io"
)

const versionString = "1.0.0"
const defaultConfigPath = "./cmakefileapi.toml"

type cliOptions struct {
	configPath string
	buildDir   string
	query      bool
	once       bool
	trace      bool
	impact     string
	trend      bool
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("cmakefileapi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.StringVar(&opts.buildDir, "build", "", "CMake build directory (overrides build_dir)")
	fs.BoolVar(&opts.query, "query", false, "Write the query files and exit")
	fs.BoolVar(&opts.once, "once", false, "Load the reply once and exit")
	fs.BoolVar(&opts.trace, "trace", false, "Trace shortest dependency chain between two targets")
	fs.StringVar(&opts.impact, "impact", "", "Analyze change impact for a target")
	fs.BoolVar(&opts.trend, "trend", false, "Print the recorded load history and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
