package logging

// CronLogger satisfies cron.Logger so scheduler internals end up in the same sink.
type CronLogger struct {
	Log Logger
}

func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.Log.Debug("cron: "+msg, keysAndValues...)
}

func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.Log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
