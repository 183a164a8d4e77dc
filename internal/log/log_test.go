package log_test

import (
	"net/url"
	"testing"

	"github.com/ivan-gammel/uritemplate/internal/log"
)

func TestLoggers(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("http://www.example.com/api")
	if err != nil {
		t.Fatal(err)
	}

	// smoke check that all handlers accept records and formatted values
	for _, l := range []struct {
		name string
		log  interface {
			Debug(msg string, args ...any)
		}
	}{
		{"noop", log.Noop},
	} {
		l.log.Debug("built uri", "uri", u, "value", log.StringValue("abc"), "dump", log.FmtValue(u, true))
	}

	if log.Def == nil || log.Dev == nil {
		t.Error("default loggers must be initialized")
	}
}
