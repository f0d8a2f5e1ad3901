package benchmark

import (
	"fmt"
	"testing"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/index"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/ranker"
)

var benchQueries = []string{
	"term001",
	"term001 term002",
	"term001 term002 term003 term004 term005",
	"term001 nosuchterm",
}

func BenchmarkRank(b *testing.B) {
	for _, numDocs := range []int{100, 1000, 10000} {
		ix := index.Build(synthCorpus(numDocs, 200))
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ranker.Rank(benchQueries[i%len(benchQueries)], ix, 10)
			}
		})
	}
}

func BenchmarkRankParallel(b *testing.B) {
	// The index is immutable after Build, so concurrent queries need no
	// synchronization; this guards against accidental shared state in the
	// scoring path.
	ix := index.Build(synthCorpus(1000, 200))
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = ranker.Rank(benchQueries[i%len(benchQueries)], ix, 10)
			i++
		}
	})
}
