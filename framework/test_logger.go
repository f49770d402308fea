package framework

// TestLogger receives events as the run progresses. Run calls it from a single goroutine.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
	HookFinished(id TestID, status HookStatus, debugOutput CapturedOutput)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                              {}
func (n nullTestLogger) TestError(TestID, error)                         {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput)       {}
func (n nullTestLogger) TestSkipped(TestID, string)                      {}
func (n nullTestLogger) HookFinished(TestID, HookStatus, CapturedOutput) {}
