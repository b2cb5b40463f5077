package health

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonwraymond/healthquery/query"
)

func BenchmarkAggregator_CheckAll(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("hosts=%d", n), func(b *testing.B) {
			agg := NewAggregator()
			for i := range n {
				agg.Register(fixed(fmt.Sprintf("host%d:443", i), success("")))
			}
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = agg.CheckAll(ctx)
			}
		})
	}
}

func BenchmarkAggregator_OverallStatus(b *testing.B) {
	agg := NewAggregator()
	results := make(map[string]query.Result, 100)
	for i := range 100 {
		if i%10 == 0 {
			results[fmt.Sprintf("host%d", i)] = failure("timeout")
		} else {
			results[fmt.Sprintf("host%d", i)] = success("")
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.OverallStatus(results)
	}
}
