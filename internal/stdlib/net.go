package stdlib

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wflang/wfl/internal/runtime"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func registerNet(r *Registry) {
	r.Register(FunctionInfo{
		Name: "http get", Category: CategoryNet, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			resp, err := httpClient.Get(args[0].String())
			if err != nil {
				return runtime.Nothing, err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return runtime.Nothing, err
			}
			return runtime.Text(string(body)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "http post", Category: CategoryNet, MinArg: 2, MaxArg: 3,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			contentType := "text/plain"
			if len(args) > 2 {
				contentType = args[2].String()
			}
			resp, err := httpClient.Post(args[0].String(), contentType, strings.NewReader(args[1].String()))
			if err != nil {
				return runtime.Nothing, err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return runtime.Nothing, err
			}
			return runtime.Text(string(body)), nil
		},
	})
}
