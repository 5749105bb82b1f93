package errors

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLensErrorMessage(t *testing.T) {
	cause := errors.New("no such file")
	err := ErrConfigUnreadable("/proj/tsconfig.json", cause)

	assert.Equal(t, "[ERR_CONFIG_UNREADABLE] /proj/tsconfig.json failed to read config: no such file", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.False(t, IsRecoverable(err))
}

func TestModuleErrorsAreRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  *LensError
		code string
	}{
		{"extends", ErrExtendsUnresolvable("/a.json", "./b.json", nil), ErrCodeExtendsUnresolvable},
		{"plugin", ErrPluginUnloadable("/a.json", "./p.lua", nil), ErrCodePluginUnloadable},
		{"module", ErrModuleUnresolvable("/a.json", "./hook", nil), ErrCodeModuleUnresolvable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsRecoverable(tt.err))
			assert.Equal(t, ErrorTypeModule, tt.err.Type)
			assert.Equal(t, tt.code, GetErrorCode(tt.err))
			assert.Equal(t, "/a.json", tt.err.FilePath)
		})
	}
}

func TestIsMatchesTypeAndCode(t *testing.T) {
	err := ErrExtendsUnresolvable("/a.json", "./b.json", nil)
	wrapped := fmt.Errorf("resolving: %w", err)

	assert.True(t, errors.Is(wrapped, &LensError{Type: ErrorTypeModule, Code: ErrCodeExtendsUnresolvable}))
	assert.False(t, errors.Is(wrapped, &LensError{Type: ErrorTypeModule, Code: ErrCodePluginUnloadable}))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "X", "y"))

	base := errors.New("disk")
	le := WrapIO(base, "ERR_READ", "read failed")
	require.NotNil(t, le)
	assert.Equal(t, ErrorTypeIO, GetErrorType(le))
	assert.False(t, le.Recoverable)

	inner := ErrModuleUnresolvable("/a.json", "./hook", nil)
	outer := WrapConfig(inner, ErrCodeConfigInvalid, "bad config", "/b.json")
	assert.Equal(t, "/b.json", outer.FilePath)
	assert.True(t, outer.Recoverable)
	assert.True(t, HasCode(outer, ErrCodeModuleUnresolvable))
	assert.True(t, HasCode(outer, ErrCodeConfigInvalid))
	assert.False(t, HasCode(outer, ErrCodePluginUnloadable))
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())

	c.Add(nil)
	assert.False(t, c.HasErrors())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.Add(ErrPluginUnloadable("/a.json", fmt.Sprintf("p%d", i), nil))
			} else {
				c.Add(ErrModuleUnresolvable("/a.json", fmt.Sprintf("m%d", i), nil))
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Errors(), 20)
	assert.Len(t, c.ByCode(ErrCodePluginUnloadable), 10)

	c.Clear()
	assert.Empty(t, c.Errors())
}

func TestErrorChainHelpers(t *testing.T) {
	root := errors.New("permission denied")
	err := WrapConfig(
		ErrPluginUnloadable("/p/tsconfig.json", "./plugin.lua", root),
		ErrCodeConfigInvalid, "plugins unusable", "/p/tsconfig.json",
	)

	assert.Equal(t, root, GetRootCause(err))
	assert.Len(t, GetErrorChain(err), 3)
	assert.True(t, HasErrorType(err, ErrorTypeModule))
	assert.False(t, HasErrorType(err, ErrorTypeIO))
	assert.Nil(t, GetRootCause(nil))
}

func TestWithOperationContext(t *testing.T) {
	assert.NoError(t, WithOperationContext(nil, "resolve", nil))

	err := WithOperationContext(errors.New("boom"), "resolve", map[string]interface{}{"config": "a.json"})
	var le *LensError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeInternalError, le.Code)
	assert.Equal(t, "resolve", le.Context["operation"])
	assert.Equal(t, "a.json", le.Context["config"])
}
