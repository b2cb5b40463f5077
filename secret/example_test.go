package secret_test

import (
	"context"
	"fmt"
	"os"

	"github.com/jonwraymond/healthquery/query"
	"github.com/jonwraymond/healthquery/secret"
)

var _ query.HeaderResolver = (*secret.Resolver)(nil)

func ExampleResolver_ResolveMap() {
	_ = os.Setenv("EXAMPLE_STATUS_KEY", "k3y")
	defer os.Unsetenv("EXAMPLE_STATUS_KEY")

	r := secret.NewResolver(true, secret.NewEnvProvider())
	headers, err := r.ResolveMap(context.Background(), map[string]string{
		"statuskey": "secretref:env:EXAMPLE_STATUS_KEY",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(headers["statuskey"])
	// Output:
	// k3y
}
