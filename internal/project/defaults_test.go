package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultizeEmpty(t *testing.T) {
	opts := Defaultize(RawOptions{})

	assert.Equal(t, 3.0, opts.Target)
	assert.Equal(t, []string{".vue"}, opts.Extensions)
	assert.False(t, opts.JSXTemplates)
	assert.False(t, opts.StrictTemplates)
	assert.Equal(t, []string{}, opts.DataAttributes)
	assert.Equal(t, []string{"aria-*"}, opts.HTMLAttributes)
	assert.Equal(t, []string{"(await import('vue')).defineComponent(", ")"}, opts.OptionsWrapper)
	assert.Equal(t, []string{"defineProps"}, opts.Macros["defineProps"])
	assert.Equal(t, []string{"withDefaults"}, opts.Macros["withDefaults"])
	assert.Equal(t, []string{}, opts.Hooks)
	assert.Equal(t, []string{}, opts.ExperimentalAdditionalLanguageModules)
	assert.Equal(t, "scoped", opts.ExperimentalResolveStyleCSSClasses)
	assert.Equal(t, true, opts.ExperimentalModelPropName[""]["input"])
	assert.Equal(t, map[string]any{"type": "text"}, opts.ExperimentalModelPropName["value"]["input"])
	assert.Empty(t, opts.Plugins)
	assert.NotNil(t, opts.Extra)

	for _, tag := range []string{"div", "hgroup", "slot", "component", "svg", "clipPath", "title"} {
		assert.Contains(t, opts.NativeTags, tag)
	}
}

func TestDefaultizeNativeTagsUnique(t *testing.T) {
	opts := Defaultize(nil)

	seen := make(map[string]bool)
	for _, tag := range opts.NativeTags {
		require.False(t, seen[tag], "duplicate native tag %q", tag)
		seen[tag] = true
	}
	assert.Equal(t, "html", opts.NativeTags[0])
	assert.Equal(t, "component", opts.NativeTags[len(opts.NativeTags)-1])
}

func TestDefaultizeOptionsWrapper(t *testing.T) {
	tests := []struct {
		name     string
		target   any
		expected string
	}{
		{"vue 2", 2, "(await import('vue')).default.extend("},
		{"vue 2.6", 2.6, "(await import('vue')).default.extend("},
		{"vue 2.7", 2.7, "(await import('vue')).defineComponent("},
		{"vue 3", 3.0, "(await import('vue')).defineComponent("},
		{"string target", "2", "(await import('vue')).default.extend("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Defaultize(RawOptions{"target": tt.target})
			assert.Equal(t, tt.expected, opts.OptionsWrapper[0])
		})
	}
}

func TestDefaultizeKeepsSetValues(t *testing.T) {
	opts := Defaultize(RawOptions{
		"extensions":      []any{".vue", ".md"},
		"strictTemplates": true,
		"dataAttributes":  []any{},
		"optionsWrapper":  []any{},
		"macros":          map[string]any{"defineProps": []any{"defineProps", "$props"}},
		"nativeTags":      []any{"div"},
	})

	assert.Equal(t, []string{".vue", ".md"}, opts.Extensions)
	assert.True(t, opts.StrictTemplates)
	assert.Equal(t, []string{}, opts.DataAttributes)
	assert.Empty(t, opts.OptionsWrapper)
	assert.Equal(t, map[string][]string{"defineProps": {"defineProps", "$props"}}, opts.Macros)
	assert.Equal(t, []string{"div"}, opts.NativeTags)
}

func TestDefaultizeNullIsUnset(t *testing.T) {
	opts := Defaultize(RawOptions{"target": nil, "htmlAttributes": nil})

	assert.Equal(t, 3.0, opts.Target)
	assert.Equal(t, []string{"aria-*"}, opts.HTMLAttributes)
}

func TestDefaultizeMalformedValue(t *testing.T) {
	opts := Defaultize(RawOptions{
		"target":          "not-a-version",
		"strictTemplates": true,
	})

	assert.Equal(t, 3.0, opts.Target)
	assert.True(t, opts.StrictTemplates)
}

func TestDefaultizeUnknownKeys(t *testing.T) {
	opts := Defaultize(RawOptions{
		"experimentalFutureFlag": true,
		"target":                 2.7,
	})

	assert.Equal(t, map[string]any{"experimentalFutureFlag": true}, opts.Extra)
	assert.Equal(t, 2.7, opts.Target)
}

func TestDefaultizePlugins(t *testing.T) {
	plugin := &BasicPlugin{ID: "pages"}
	opts := Defaultize(RawOptions{"plugins": []LanguagePlugin{plugin}})

	require.Len(t, opts.Plugins, 1)
	assert.Same(t, plugin, opts.Plugins[0])
	assert.Equal(t, []string{"pages"}, opts.PluginNames())
}

func TestDefaultizeDeterministic(t *testing.T) {
	input := RawOptions{
		"target":     2.7,
		"extensions": []any{".vue"},
		"macros":     map[string]any{"defineEmits": []any{"defineEmits"}},
	}

	first := Defaultize(input)
	second := Defaultize(input)
	assert.Equal(t, first, second)

	first.Extensions[0] = ".changed"
	first.NativeTags[0] = "changed"
	first.Macros["defineEmits"][0] = "changed"
	first.ExperimentalModelPropName[""]["input"] = false

	third := Defaultize(input)
	assert.Equal(t, second, third)
	assert.Equal(t, []any{".vue"}, input["extensions"])
}

func TestApplyPlugins(t *testing.T) {
	var order []string
	plugins := []LanguagePlugin{
		&BasicPlugin{ID: "first", Resolve: func(opts *CompilerOptions) error {
			order = append(order, "first")
			opts.Extensions = append(opts.Extensions, ".md")
			return nil
		}},
		&BasicPlugin{ID: "broken", Resolve: func(*CompilerOptions) error {
			order = append(order, "broken")
			return assert.AnError
		}},
		&BasicPlugin{ID: "noop"},
		&BasicPlugin{ID: "last", Resolve: func(opts *CompilerOptions) error {
			order = append(order, "last")
			opts.StrictTemplates = true
			return nil
		}},
	}

	opts := Defaultize(RawOptions{"plugins": plugins})
	errs := ApplyPlugins(&opts)

	assert.Equal(t, []string{"first", "broken", "last"}, order)
	assert.Equal(t, []string{".vue", ".md"}, opts.Extensions)
	assert.True(t, opts.StrictTemplates)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], assert.AnError)
}
