package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/launchdarkly/hook-scoped-tests/examples"
	"github.com/launchdarkly/hook-scoped-tests/framework"

	"github.com/alessio/shellescape"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type commandParams struct {
	filters    framework.RegexFilters
	timeout    time.Duration
	retries    int
	asyncDelay time.Duration
	configFile string
	jsonReport string
	debug      bool
	debugAll   bool
	noColor    bool
}

// runConfig is the format of the file passed with -config. Anything that was also given on the
// command line is taken from the command line.
type runConfig struct {
	TimeoutMS    ldvalue.OptionalInt `json:"timeoutMs"`
	Retries      ldvalue.OptionalInt `json:"retries"`
	AsyncDelayMS ldvalue.OptionalInt `json:"asyncDelayMs"`
	Run          []string            `json:"run"`
	Skip         []string            `json:"skip"`
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.timeout, "timeout", framework.DefaultTimeout, "how long asynchronous hooks and tests may take")
	fs.IntVar(&c.retries, "retries", 0, "extra attempts for each failing test")
	fs.DurationVar(&c.asyncDelay, "async-delay", examples.DefaultOptions().AsyncDelay,
		"delay used by the asynchronous examples")
	fs.StringVar(&c.configFile, "config", "", "JSON file with default settings")
	fs.StringVar(&c.jsonReport, "json", "", "also write the results as JSON to this file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	if c.configFile != "" {
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := c.applyConfigFile(explicit); err != nil {
			fmt.Fprintln(errOut, err)
			return false
		}
	}
	if c.timeout <= 0 {
		fmt.Fprintln(errOut, "timeout must be greater than zero")
		return false
	}
	return true
}

func (c *commandParams) applyConfigFile(explicit map[string]bool) error {
	data, err := os.ReadFile(c.configFile)
	if err != nil {
		return fmt.Errorf("can't read config file: %w", err)
	}
	var rc runConfig
	if err := json.Unmarshal(data, &rc); err != nil {
		return fmt.Errorf("malformed config file %s: %w", c.configFile, err)
	}

	if rc.TimeoutMS.IsDefined() && !explicit["timeout"] {
		c.timeout = time.Duration(rc.TimeoutMS.IntValue()) * time.Millisecond
	}
	if rc.Retries.IsDefined() && !explicit["retries"] {
		c.retries = rc.Retries.IntValue()
	}
	if rc.AsyncDelayMS.IsDefined() && !explicit["async-delay"] {
		c.asyncDelay = time.Duration(rc.AsyncDelayMS.IntValue()) * time.Millisecond
	}
	if !explicit["run"] {
		for _, p := range rc.Run {
			if err := c.filters.MustMatch.Set(p); err != nil {
				return fmt.Errorf("config file %s, run pattern %q: %w", c.configFile, p, err)
			}
		}
	}
	if !explicit["skip"] {
		for _, p := range rc.Skip {
			if err := c.filters.MustNotMatch.Set(p); err != nil {
				return fmt.Errorf("config file %s, skip pattern %q: %w", c.configFile, p, err)
			}
		}
	}
	return nil
}

// rerunCommand returns a command line that runs only the given failed tests again.
func rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program)
	for _, f := range failures {
		b.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
