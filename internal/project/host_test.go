package project

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

func TestDecodeConfig(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     string
		expected RawOptions
		wantErr  bool
	}{
		{
			name: "jsonc with comments and trailing commas",
			path: "tsconfig.json",
			data: `{
				// base config
				"extends": "./base.json", /* inline */
				"vueCompilerOptions": { "target": 2.7, },
			}`,
			expected: RawOptions{
				"extends":            "./base.json",
				"vueCompilerOptions": map[string]any{"target": 2.7},
			},
		},
		{
			name: "yaml",
			path: "vuelens.yaml",
			data: "extends: ./base.json\nvueCompilerOptions:\n  strictTemplates: true\n",
			expected: RawOptions{
				"extends":            "./base.json",
				"vueCompilerOptions": map[string]any{"strictTemplates": true},
			},
		},
		{
			name: "toml",
			path: "vuelens.toml",
			data: "extends = [\"./a.json\", \"./b.json\"]\n\n[vueCompilerOptions]\nstrictTemplates = true\n",
			expected: RawOptions{
				"extends":            []any{"./a.json", "./b.json"},
				"vueCompilerOptions": map[string]any{"strictTemplates": true},
			},
		},
		{
			name:     "empty document",
			path:     "tsconfig.json",
			data:     "  \n",
			expected: RawOptions{},
		},
		{
			name:    "invalid json",
			path:    "tsconfig.json",
			data:    `{"extends": }`,
			wantErr: true,
		},
		{
			name:    "json array",
			path:    "tsconfig.json",
			data:    `["./base.json"]`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			path:    "vuelens.yml",
			data:    "extends: [unterminated\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := DecodeConfig([]byte(tt.data), tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, lenserrors.HasCode(err, lenserrors.ErrCodeConfigInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, raw)
		})
	}
}

func TestFileHostReadConfigMissing(t *testing.T) {
	_, err := NewFileHost().ReadConfig(filepath.Join(projectDir(t), "missing.json"))

	require.Error(t, err)
	assert.True(t, lenserrors.HasCode(err, lenserrors.ErrCodeConfigUnreadable))
}

func TestFileHostInheritsCompilerOptions(t *testing.T) {
	dir := projectDir(t)
	writeFile(t, dir, "configs/base.json", `{
		"compilerOptions": {"strict": true, "target": "es2020", "outDir": "build"}
	}`)
	root := writeFile(t, dir, "tsconfig.json", `{
		"extends": "./configs/base.json",
		"compilerOptions": {"target": "esnext", "baseUrl": "."}
	}`)

	host := NewFileHost()
	raw, err := host.ReadConfig(root)
	require.NoError(t, err)
	parsed := host.ParseConfig(raw, root, nil)

	assert.Empty(t, parsed.Errors)
	assert.Equal(t, true, parsed.Options["strict"])
	assert.Equal(t, "esnext", parsed.Options["target"])
	assert.Equal(t, filepath.Join(dir, "configs", "build"), parsed.Options["outDir"])
	assert.Equal(t, dir, parsed.Options["baseUrl"])
}

func TestFileHostFileNames(t *testing.T) {
	dir := projectDir(t)
	writeFile(t, dir, "src/App.vue", "<template/>")
	writeFile(t, dir, "src/main.ts", "")
	writeFile(t, dir, "src/legacy/old.ts", "")
	writeFile(t, dir, "src/util.js", "")
	writeFile(t, dir, "src/.hidden/secret.ts", "")
	writeFile(t, dir, "types/env.d.ts", "")
	writeFile(t, dir, "dist/main.ts", "")
	writeFile(t, dir, "node_modules/dep/index.ts", "")

	tests := []struct {
		name     string
		config   string
		extra    []string
		expected []string
	}{
		{
			name:     "default include",
			config:   `{}`,
			expected: []string{"dist/main.ts", "src/legacy/old.ts", "src/main.ts", "types/env.d.ts"},
		},
		{
			name:     "component extension",
			config:   `{"include": ["src"]}`,
			extra:    []string{".vue"},
			expected: []string{"src/App.vue", "src/legacy/old.ts", "src/main.ts"},
		},
		{
			name:     "exclude",
			config:   `{"include": ["src/**/*"], "exclude": ["src/legacy"]}`,
			expected: []string{"src/main.ts"},
		},
		{
			name:     "outDir excluded by default",
			config:   `{"compilerOptions": {"outDir": "dist"}}`,
			expected: []string{"src/legacy/old.ts", "src/main.ts", "types/env.d.ts"},
		},
		{
			name:     "allowJs",
			config:   `{"include": ["src"], "compilerOptions": {"allowJs": true}}`,
			expected: []string{"src/legacy/old.ts", "src/main.ts", "src/util.js"},
		},
		{
			name:     "files only",
			config:   `{"files": ["src/main.ts", "src/missing.ts"]}`,
			expected: []string{"src/main.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "tsconfig.json")
			raw, err := DecodeConfig([]byte(tt.config), path)
			require.NoError(t, err)

			parsed := NewFileHost().ParseConfig(raw, path, tt.extra)

			expected := make([]string, 0, len(tt.expected))
			for _, rel := range tt.expected {
				expected = append(expected, filepath.Join(dir, filepath.FromSlash(rel)))
			}
			assert.Equal(t, expected, parsed.FileNames)
		})
	}
}

func TestFileHostInheritsIncludeFromBase(t *testing.T) {
	dir := projectDir(t)
	writeFile(t, dir, "app/src/main.ts", "")
	writeFile(t, dir, "app/scripts/build.ts", "")
	writeFile(t, dir, "app/base.json", `{"include": ["src"]}`)
	root := writeFile(t, dir, "app/tsconfig.json", `{"extends": "./base.json"}`)

	host := NewFileHost()
	raw, err := host.ReadConfig(root)
	require.NoError(t, err)

	parsed := host.ParseConfig(raw, root, nil)
	assert.Equal(t, []string{filepath.Join(dir, "app", "src", "main.ts")}, parsed.FileNames)
}

func TestFileHostReportsBrokenExtends(t *testing.T) {
	dir := projectDir(t)
	root := writeFile(t, dir, "tsconfig.json", `{"extends": "./nowhere.json"}`)

	host := NewFileHost()
	raw, err := host.ReadConfig(root)
	require.NoError(t, err)

	parsed := host.ParseConfig(raw, root, nil)
	require.Len(t, parsed.Errors, 1)
	assert.True(t, lenserrors.HasCode(parsed.Errors[0], lenserrors.ErrCodeExtendsUnresolvable))
	assert.NotNil(t, parsed.FileNames)
}

func TestFileHostCycleWithNonCanonicalResolver(t *testing.T) {
	dir := projectDir(t)
	t.Chdir(dir)
	writeFile(t, dir, "a.json", `{"extends": "./b.json", "compilerOptions": {"strict": true}}`)
	writeFile(t, dir, "b.json", `{"extends": "./a.json", "compilerOptions": {"strict": false, "target": "es2020"}}`)

	host := &FileHost{Modules: relativeResolver{}}
	raw, err := host.ReadConfig("a.json")
	require.NoError(t, err)

	done := make(chan *ParsedConfig, 1)
	go func() { done <- host.ParseConfig(raw, "a.json", nil) }()

	select {
	case parsed := <-done:
		assert.Empty(t, parsed.Errors)
		assert.Equal(t, true, parsed.Options["strict"])
		assert.Equal(t, "es2020", parsed.Options["target"])
	case <-time.After(5 * time.Second):
		t.Fatal("parsing a cyclic extends chain did not finish")
	}
}
