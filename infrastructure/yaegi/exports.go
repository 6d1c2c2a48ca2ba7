package yaegi

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/mexbridge/mexbridge/hostfuncs"
)

// hostExports exposes reg to interpreted code as package "mexhost":
//
//	mexhost.Invoke(name, requestJSON string) string
//	mexhost.Log(level, message string)
func hostExports(reg *hostfuncs.Registry) interp.Exports {
	invoke := func(name, request string) string {
		resp, err := reg.Invoke(context.Background(), name, []byte(request))
		if err != nil {
			return string(hostfuncs.NewInternalError(err.Error()).ToJSON())
		}
		return string(resp)
	}

	logFn := func(level, message string) {
		req, _ := json.Marshal(hostfuncs.LogMessageRequest{Level: level, Message: message})
		_, _ = reg.Invoke(context.Background(), hostfuncs.LogMessage, req)
	}

	return interp.Exports{
		"mexhost/mexhost": {
			"Invoke": reflect.ValueOf(invoke),
			"Log":    reflect.ValueOf(logFn),
		},
	}
}
