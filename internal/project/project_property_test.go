//go:build property
// +build property

package project

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDefaultizeProperties tests defaulting invariants
func TestDefaultizeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: identical input yields deep-equal output
	properties.Property("defaultize is deterministic", prop.ForAll(
		func(target float64, strict bool, exts []string) bool {
			input := RawOptions{"target": target, "strictTemplates": strict}
			if len(exts) > 0 {
				input["extensions"] = exts
			}
			return reflect.DeepEqual(Defaultize(input), Defaultize(input))
		},
		gen.Float64Range(1, 4),
		gen.Bool(),
		gen.SliceOf(gen.AlphaString()),
	))

	// Property: set keys are never overwritten by defaults
	properties.Property("set target survives", prop.ForAll(
		func(target float64) bool {
			return Defaultize(RawOptions{"target": target}).Target == target
		},
		gen.Float64Range(0, 10),
	))

	// Property: the options wrapper follows the target threshold
	properties.Property("wrapper threshold", prop.ForAll(
		func(target float64) bool {
			wrapper := Defaultize(RawOptions{"target": target}).OptionsWrapper[0]
			if target >= 2.7 {
				return wrapper == "(await import('vue')).defineComponent("
			}
			return wrapper == "(await import('vue')).default.extend("
		},
		gen.Float64Range(2, 3.5),
	))

	properties.TestingRun(t)
}

// TestResolveChainProperties tests resolution over generated extends chains
func TestResolveChainProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	// Property: a config extending its whole chain in a ring terminates and
	// keeps the root's own value
	properties.Property("cyclic chains terminate", prop.ForAll(
		func(length int) bool {
			dir, err := filepath.EvalSymlinks(t.TempDir())
			if err != nil {
				return false
			}
			for i := 0; i < length; i++ {
				next := (i + 1) % length
				writeFile(t, dir, fmt.Sprintf("c%d.json", i), fmt.Sprintf(
					`{"extends": "./c%d.json", "vueCompilerOptions": {"owner": %d}}`, next, i))
			}

			result := NewResolver().Resolve(context.Background(), filepath.Join(dir, "c0.json"))
			return len(result.Chain) == length && result.VueOptions["owner"] == 0.0
		},
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
