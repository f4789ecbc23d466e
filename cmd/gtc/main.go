// Command gtc is the CLI front end for the gradual type checker: a
// thin shell over internal/analyzer with flag parsing and color-coded
// subcommands.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/GriffinCanCode/gradualtype/internal/config"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		configPath  = flag.String("config", "", "Path to a gtc.yaml config file")
		workers     = flag.String("workers", "", "Worker count override (\"auto\" or a positive integer)")
		cacheDir    = flag.String("cache-dir", "", "Result cache directory (empty disables the disk tier)")
		noIncr      = flag.Bool("no-incremental", false, "Disable incremental analysis (always recheck every module)")
		strict      = flag.Bool("strict", false, "Set the strict option (reserved; does not change checking)")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *workers != "" {
		cfg.Workers = *workers
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if *noIncr {
		cfg.Incremental = false
	}
	if *strict {
		cfg.Strict = true
	}

	switch cmd := flag.Arg(0); cmd {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file or directory argument\n", red("Error"))
			fmt.Println("Usage: gtc check <path> [path...]")
			os.Exit(1)
		}
		if ok := runCheck(cfg, flag.Args()[1:]); !ok {
			os.Exit(1)
		}
	case "repl":
		runREPL(cfg)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), cmd)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("gtc %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
	fmt.Println("\nA gradual type checker for the .gt surface language")
}

func printHelp() {
	fmt.Println(bold("gtc - gradual type checker"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gtc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <path...>   Type-check files or directories\n", cyan("check"))
	fmt.Printf("  %s             Start the interactive REPL\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version          Print version information")
	fmt.Println("  --help             Show this help message")
	fmt.Println("  --config <path>    Load options from a YAML config file")
	fmt.Println("  --workers <n>      Worker count override (\"auto\" or a positive integer)")
	fmt.Println("  --cache-dir <dir>  Result cache directory")
	fmt.Println("  --no-incremental   Always recheck every module")
	fmt.Println("  --strict           Set the strict option (reserved; does not change checking)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", cyan("gtc check src/"))
	fmt.Printf("  %s\n", cyan("gtc repl"))
}
