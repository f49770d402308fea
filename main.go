package main

import (
	"fmt"
	"log"
	"os"

	"github.com/launchdarkly/hook-scoped-tests/examples"
	"github.com/launchdarkly/hook-scoped-tests/framework"

	"github.com/fatih/color"
)

func main() {
	var params commandParams
	if !params.Read(os.Args, os.Stderr) {
		os.Exit(2)
	}
	if params.noColor {
		color.NoColor = true
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}
	mainDebugLogger.Printf("timeout %s, retries %d, async delay %s", params.timeout, params.retries, params.asyncDelay)

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := framework.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	var filter framework.Filter
	if params.filters.IsDefined() {
		filter = params.filters.AsFilter
	}
	results := examples.RunSuite(
		examples.Options{AsyncDelay: params.asyncDelay},
		framework.Config{Timeout: params.timeout, Retries: params.retries},
		filter,
		testLogger,
	)
	mainDebugLogger.Printf("run %s finished", results.RunID)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)

	if params.jsonReport != "" {
		if err := writeJSONReport(params.jsonReport, results); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write JSON report: %s\n", err)
			os.Exit(1)
		}
	}

	if !results.OK() {
		if len(results.Failures) > 0 {
			fmt.Println()
			fmt.Println("To run only the failed tests again:")
			fmt.Println("  " + rerunCommand(os.Args[0], results.Failures))
		}
		os.Exit(1)
	}
}

func writeJSONReport(path string, results framework.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := framework.WriteJSONReport(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
