package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one line of debug output. Source is the name of the hook or case that
// wrote it, since the output of a case includes the output of its before-each and after-each
// hooks.
type CapturedMessage struct {
	Time    time.Time
	Source  string
	Message string
}

type CapturedOutput []CapturedMessage

type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

type sourceLogger struct {
	owner  *CapturingLogger
	source string
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.add("", fmt.Sprintf(message, args...))
}

func (l *CapturingLogger) add(source, message string) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Source: source, Message: message})
	l.lock.Unlock()
}

// withSource returns a Logger that writes into this one, tagging each line with the source.
func (l *CapturingLogger) withSource(source string) Logger {
	return sourceLogger{owner: l, source: source}
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (s sourceLogger) Printf(message string, args ...interface{}) {
	s.owner.add(s.source, fmt.Sprintf(message, args...))
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		if m.Source == "" {
			fmt.Fprintf(dest, "%s[%s] %s\n", prefix, m.Time.Format(timestampFormat), m.Message)
			continue
		}
		fmt.Fprintf(dest, "%s[%s] (%s) %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Source,
			m.Message,
		)
	}
}
