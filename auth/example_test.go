package auth_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonwraymond/healthquery/auth"
	"github.com/jonwraymond/healthquery/query"
)

var (
	_ query.TokenSource = (*auth.JWTSource)(nil)
	_ query.TokenSource = auth.StaticToken("")
)

func ExampleJWTSource_Token() {
	src, err := auth.NewJWTSource(auth.JWTConfig{
		Issuer:   "healthquery",
		Audience: "health-api",
		Subject:  "ops",
	}, auth.NewStaticKeyProvider([]byte("0123456789abcdef0123456789abcdef")))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	token, _ := src.Token(context.Background())
	fmt.Println(strings.Count(token, "."))
	// Output:
	// 2
}
