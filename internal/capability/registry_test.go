package capability

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/config"
)

func echoHandler(ctx context.Context, inv *Invocation) (interface{}, error) {
	return inv.Args, nil
}

func newTestRegistry(t *testing.T, token string, descs ...Descriptor) *Registry {
	t.Helper()
	reg := NewRegistry(config.NewTokenCell(token))
	for _, d := range descs {
		require.NoError(t, reg.Register(d))
	}
	reg.Seal()
	return reg
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry(nil)

	require.NoError(t, reg.Register(Descriptor{Kind: api.KindTool, Name: "echo", Handler: echoHandler}))
	require.NoError(t, reg.Register(Descriptor{Kind: api.KindPrompt, Name: "echo", Handler: echoHandler}), "names are unique per kind")

	err := reg.Register(Descriptor{Kind: api.KindTool, Name: "echo", Handler: echoHandler})
	assert.ErrorContains(t, err, "already registered")

	tests := []struct {
		name string
		desc Descriptor
		want string
	}{
		{"bad kind", Descriptor{Kind: "widget", Name: "x", Handler: echoHandler}, "invalid kind"},
		{"no name", Descriptor{Kind: api.KindTool, Handler: echoHandler}, "no name"},
		{"no handler", Descriptor{Kind: api.KindTool, Name: "x"}, "no handler"},
		{"resource without URI", Descriptor{Kind: api.KindResource, Name: "x", Handler: echoHandler}, "no URI"},
		{
			"undeclared URI variable",
			Descriptor{Kind: api.KindResource, Name: "x", URI: "x://{id}", Handler: echoHandler},
			"not a declared argument",
		},
		{
			"duplicate argument",
			Descriptor{Kind: api.KindTool, Name: "x", Handler: echoHandler, Args: []api.ArgMetadata{{Name: "a"}, {Name: "a"}}},
			"twice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, reg.Register(tt.desc), tt.want)
		})
	}

	reg.Seal()
	err = reg.Register(Descriptor{Kind: api.KindTool, Name: "late", Handler: echoHandler})
	assert.True(t, errors.Is(err, api.ErrRegistrySealed))
}

func TestRegistry_ListAndLookup(t *testing.T) {
	reg := newTestRegistry(t, "",
		Descriptor{Kind: api.KindTool, Name: "b", Handler: echoHandler},
		Descriptor{Kind: api.KindResource, Name: "r", URI: "x://r", Handler: echoHandler},
		Descriptor{Kind: api.KindTool, Name: "a", Handler: echoHandler},
	)

	tools := reg.List(api.KindTool)
	require.Len(t, tools, 2)
	assert.Equal(t, "b", tools[0].Name, "registration order is preserved")
	assert.Equal(t, "a", tools[1].Name)
	assert.Len(t, reg.List(""), 3)

	d, ok := reg.Lookup(api.KindResource, "r")
	require.True(t, ok)
	assert.Equal(t, "x://r", d.URI)

	_, ok = reg.Lookup(api.KindTool, "r")
	assert.False(t, ok)
}

func TestRegistry_DispatchUnknown(t *testing.T) {
	reg := newTestRegistry(t, "")
	_, err := reg.Dispatch(context.Background(), api.KindTool, "nope", nil, nil)
	assert.True(t, errors.Is(err, api.ErrCapabilityNotRegistered))

	_, err = reg.ReadResource(context.Background(), "x://nope", nil)
	assert.True(t, errors.Is(err, api.ErrCapabilityNotRegistered))
}

func TestRegistry_DispatchBinding(t *testing.T) {
	desc := Descriptor{
		Kind:    api.KindTool,
		Name:    "repeat",
		Handler: echoHandler,
		Args: []api.ArgMetadata{
			{Name: "message", Type: api.ArgTypeString, Required: true},
			{Name: "times", Type: api.ArgTypeInteger, Default: 2, Minimum: api.Min(1)},
			{Name: "loud", Type: api.ArgTypeBoolean, Default: false},
			{Name: "mode", Type: api.ArgTypeString, Default: "http", Enum: []interface{}{"http", "https"}},
		},
	}
	reg := newTestRegistry(t, "", desc)

	tests := []struct {
		name    string
		args    map[string]interface{}
		want    Args
		wantErr string
	}{
		{
			name: "defaults applied",
			args: map[string]interface{}{"message": "hi"},
			want: Args{"message": "hi", "times": 2, "loud": false, "mode": "http"},
		},
		{
			name: "json numbers arrive as float64",
			args: map[string]interface{}{"message": "hi", "times": float64(3)},
			want: Args{"message": "hi", "times": 3, "loud": false, "mode": "http"},
		},
		{
			name: "strings are coerced",
			args: map[string]interface{}{"message": "hi", "times": "4", "loud": "true", "extra": "dropped"},
			want: Args{"message": "hi", "times": 4, "loud": true, "mode": "http"},
		},
		{
			name:    "missing required",
			args:    map[string]interface{}{"times": 1},
			wantErr: "argument 'message': is required",
		},
		{
			name:    "null counts as missing",
			args:    map[string]interface{}{"message": nil},
			wantErr: "is required",
		},
		{
			name:    "wrong type",
			args:    map[string]interface{}{"message": 5},
			wantErr: "expected string, got number",
		},
		{
			name:    "fractional integer",
			args:    map[string]interface{}{"message": "hi", "times": 1.5},
			wantErr: "expected integer",
		},
		{
			name:    "below minimum",
			args:    map[string]interface{}{"message": "hi", "times": 0},
			wantErr: "argument 'times': must be >= 1",
		},
		{
			name:    "below minimum as string",
			args:    map[string]interface{}{"message": "hi", "times": "-3"},
			wantErr: "argument 'times': must be >= 1",
		},
		{
			name:    "not in enum",
			args:    map[string]interface{}{"message": "hi", "mode": "ftp"},
			wantErr: "argument 'mode': must be one of: http, https",
		},
		{
			name:    "integer overflow",
			args:    map[string]interface{}{"message": "hi", "times": 1e19},
			wantErr: "argument 'times': 1e+19 is out of integer range",
		},
		{
			name:    "negative integer overflow",
			args:    map[string]interface{}{"message": "hi", "times": -1e19},
			wantErr: "out of integer range",
		},
		{
			name:    "integer overflow as string",
			args:    map[string]interface{}{"message": "hi", "times": "10000000000000000000"},
			wantErr: "expected integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := reg.Dispatch(context.Background(), api.KindTool, "repeat", tt.args, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, api.IsValidation(err), "got %T", err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRegistry_RemoteRequiresToken(t *testing.T) {
	var calls int32
	remote := Descriptor{
		Kind:   api.KindTool,
		Name:   "remote",
		Remote: true,
		Handler: func(ctx context.Context, inv *Invocation) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			return inv.Token.Value(), nil
		},
	}

	cell := config.NewTokenCell("")
	reg := NewRegistry(cell)
	require.NoError(t, reg.Register(remote))
	reg.Seal()

	_, err := reg.Dispatch(context.Background(), api.KindTool, "remote", nil, nil)
	require.Error(t, err)
	assert.True(t, api.IsConfiguration(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	cell.Store("SESSION=x")
	out, err := reg.Dispatch(context.Background(), api.KindTool, "remote", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "SESSION=x", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRegistry_ValidationBeforeTokenCheck(t *testing.T) {
	var calls int32
	reg := newTestRegistry(t, "", Descriptor{
		Kind:   api.KindTool,
		Name:   "remote",
		Remote: true,
		Args:   []api.ArgMetadata{{Name: "addr", Type: api.ArgTypeString, Required: true}},
		Handler: func(ctx context.Context, inv *Invocation) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		},
	})

	_, err := reg.Dispatch(context.Background(), api.KindTool, "remote", nil, nil)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, int32(0), calls)
}

func TestRegistry_HandlerErrorsPropagateUnchanged(t *testing.T) {
	upstreamErr := &api.UpstreamHTTPError{Method: "GET", URL: "u", Status: 502}
	reg := newTestRegistry(t, "tok", Descriptor{
		Kind:   api.KindTool,
		Name:   "fail",
		Remote: true,
		Handler: func(ctx context.Context, inv *Invocation) (interface{}, error) {
			return nil, upstreamErr
		},
	})

	_, err := reg.Dispatch(context.Background(), api.KindTool, "fail", nil, nil)
	assert.Same(t, upstreamErr, err)
}

func TestRegistry_CancellationDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reg := newTestRegistry(t, "", Descriptor{
		Kind: api.KindTool,
		Name: "slow",
		Handler: func(ctx context.Context, inv *Invocation) (interface{}, error) {
			cancel()
			return "partial", nil
		},
	})

	out, err := reg.Dispatch(ctx, api.KindTool, "slow", nil, nil)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, context.Canceled))

	out, err = reg.Dispatch(ctx, api.KindTool, "slow", nil, nil)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, context.Canceled), "already-cancelled context never reaches the handler")
}

func TestRegistry_NotifierNeverNil(t *testing.T) {
	reg := newTestRegistry(t, "", Descriptor{
		Kind: api.KindTool,
		Name: "notify",
		Handler: func(ctx context.Context, inv *Invocation) (interface{}, error) {
			inv.Notifier.Info("hello %s", "world")
			return inv.ID, nil
		},
	})

	out, err := reg.Dispatch(context.Background(), api.KindTool, "notify", nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	rec := &recordingNotifier{}
	_, err = reg.Dispatch(context.Background(), api.KindTool, "notify", nil, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"info: hello world"}, rec.messages)
}

func TestRegistry_ResolveURI(t *testing.T) {
	reg := newTestRegistry(t, "",
		Descriptor{
			Kind: api.KindResource, Name: "profile", URI: "cities://{city}/profile", Handler: echoHandler,
			Args: []api.ArgMetadata{{Name: "city", Type: api.ArgTypeString, Required: true}},
		},
		Descriptor{Kind: api.KindResource, Name: "default", URI: "cities://default", Handler: echoHandler},
		Descriptor{
			Kind: api.KindResource, Name: "products", URI: "cmdb://product-lines{?rows}", Handler: echoHandler,
			Args: []api.ArgMetadata{{Name: "rows", Type: api.ArgTypeInteger, Default: 1000}},
		},
	)

	tests := []struct {
		uri  string
		name string
		args map[string]interface{}
	}{
		{"cities://default", "default", map[string]interface{}{}},
		{"cities://Paris/profile", "profile", map[string]interface{}{"city": "Paris"}},
		{"cities://New%20York/profile", "profile", map[string]interface{}{"city": "New York"}},
		{"cmdb://product-lines", "products", map[string]interface{}{}},
		{"cmdb://product-lines?rows=5", "products", map[string]interface{}{"rows": "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			d, args, ok := reg.ResolveURI(tt.uri)
			require.True(t, ok)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.args, args)
		})
	}

	_, _, ok := reg.ResolveURI("cities://Paris/weather")
	assert.False(t, ok)

	out, err := reg.ReadResource(context.Background(), "cmdb://product-lines?rows=5", nil)
	require.NoError(t, err)
	assert.Equal(t, Args{"rows": 5}, out)
}

func TestRegistry_ExpandURI(t *testing.T) {
	reg := newTestRegistry(t, "",
		Descriptor{
			Kind: api.KindResource, Name: "profile", URI: "cities://{city}/profile", Handler: echoHandler,
			Args: []api.ArgMetadata{{Name: "city", Type: api.ArgTypeString, Required: true}},
		},
		Descriptor{Kind: api.KindResource, Name: "default", URI: "cities://default", Handler: echoHandler},
		Descriptor{
			Kind: api.KindResource, Name: "products", URI: "cmdb://product-lines{?rows}", Handler: echoHandler,
			Args: []api.ArgMetadata{{Name: "rows", Type: api.ArgTypeInteger, Default: 1000}},
		},
	)

	for _, city := range []string{"New York", "Trinidad & Tobago", "Nowhere=1", "a+b", "x;y", "a/b?c#d", "São Paulo"} {
		t.Run(city, func(t *testing.T) {
			uri, err := reg.ExpandURI("profile", map[string]string{"city": city})
			require.NoError(t, err)

			d, args, ok := reg.ResolveURI(uri)
			require.True(t, ok, "expanded URI %q must resolve", uri)
			assert.Equal(t, "profile", d.Name)
			assert.Equal(t, map[string]interface{}{"city": city}, args)
		})
	}

	uri, err := reg.ExpandURI("profile", map[string]string{"city": "New York"})
	require.NoError(t, err)
	assert.Equal(t, "cities://New%20York/profile", uri)

	uri, err = reg.ExpandURI("products", map[string]string{"rows": "5"})
	require.NoError(t, err)
	assert.Equal(t, "cmdb://product-lines?rows=5", uri)

	uri, err = reg.ExpandURI("default", nil)
	require.NoError(t, err)
	assert.Equal(t, "cities://default", uri)

	_, err = reg.ExpandURI("weather", nil)
	assert.ErrorIs(t, err, api.ErrCapabilityNotRegistered)
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) record(level, format string, args ...interface{}) {
	r.messages = append(r.messages, level+": "+fmt.Sprintf(format, args...))
}

func (r *recordingNotifier) Debug(f string, a ...interface{}) { r.record("debug", f, a...) }
func (r *recordingNotifier) Info(f string, a ...interface{})  { r.record("info", f, a...) }
func (r *recordingNotifier) Warn(f string, a ...interface{})  { r.record("warn", f, a...) }
func (r *recordingNotifier) Error(f string, a ...interface{}) { r.record("error", f, a...) }
