package main

import (
	"fmt"
	"os"
)

// version is stamped at release time via ldflags.
var version = "0.0.0-dev"

const (
	exitOK             = 0
	exitFailure        = 1
	exitInvalidInput   = 2
	exitBlocked        = 3
	exitReviewRequired = 4
)

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	if len(arguments) < 2 {
		printUsage()
		return exitInvalidInput
	}
	switch arguments[1] {
	case "assess":
		return runAssess(arguments[2:])
	case "demo":
		return runDemo(arguments[2:])
	case "check":
		return runCheck(arguments[2:])
	case "lookup":
		return runLookup(arguments[2:])
	case "migrate":
		return runMigrate(arguments[2:])
	case "version", "--version", "-v":
		fmt.Println("crosscheck", version)
		return exitOK
	case "help", "-h", "--help":
		printUsage()
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  crosscheck assess --shipment <id> [--data <dir>|--database-url <url>] [--value <n>] [--delay-days <n>] [--policy <file>] [--json]")
	fmt.Println("  crosscheck check <name> [--data <dir>|--database-url <url>] [check flags] [--json]")
	fmt.Println("  crosscheck check list")
	fmt.Println("  crosscheck lookup <hs-codes|rulings|market-price|supplier|vessel> <query|kw1,kw2> [--data <dir>|--database-url <url>]")
	fmt.Println("  crosscheck demo [--json]")
	fmt.Println("  crosscheck migrate [--database-url <url>]")
	fmt.Println("  crosscheck version")
}
