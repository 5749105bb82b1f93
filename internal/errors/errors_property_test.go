//go:build property

package errors

import (
	"fmt"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCollectorProperties validates error collection properties
func TestCollectorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: concurrent additions are never lost
	properties.Property("concurrent error addition is thread-safe", prop.ForAll(
		func(goroutineCount int, errorsPerGoroutine int) bool {
			collector := NewCollector()

			var wg sync.WaitGroup
			for g := 0; g < goroutineCount; g++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					for e := 0; e < errorsPerGoroutine; e++ {
						collector.Add(ErrExtendsUnresolvable(
							fmt.Sprintf("tsconfig.%d.json", id),
							fmt.Sprintf("./base.%d.json", e),
							nil,
						))
					}
				}(g)
			}
			wg.Wait()

			return len(collector.Errors()) == goroutineCount*errorsPerGoroutine &&
				len(collector.ByCode(ErrCodeExtendsUnresolvable)) == goroutineCount*errorsPerGoroutine
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 20),
	))

	// Property: wrapping keeps every code in the chain reachable
	properties.Property("wrapped codes stay reachable", prop.ForAll(
		func(depth int) bool {
			var err error = ErrConfigUnreadable("tsconfig.json", fmt.Errorf("eof"))
			for i := 0; i < depth; i++ {
				err = Wrap(err, ErrorTypeInternal, ErrCodeInternalError, fmt.Sprintf("layer %d", i))
			}

			return HasCode(err, ErrCodeConfigUnreadable) &&
				len(GetErrorChain(err)) == depth+2
		},
		gen.IntRange(0, 15),
	))

	properties.TestingRun(t)
}
