package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/kidspro/kidspro/core"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, core.Person
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var personSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		if p, ok := arg.(core.Person); ok {
			if !personSet { // only set one Person
				rollbar.SetPerson(p.ID, p.Name, "")
				personSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) print(report []interface{}) {
	l.std.Println(report[0])
	for _, arg := range report[1:] {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	report := l.prepare(msg, args)
	rollbar.Debug(report...)
	l.print(report)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	report := l.prepare(msg, args)
	rollbar.Info(report...)
	l.print(report)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	report := l.prepare(msg, args)
	rollbar.Warning(report...)
	l.print(report)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	report := l.prepare(msg, args)
	rollbar.Error(report...)
	l.print(report)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	report := l.prepare(msg, args)
	rollbar.Critical(report...)
	l.print(report)
	l.std.Fatal(msg)
}
