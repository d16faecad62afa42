package capability

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yosida95/uritemplate/v3"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/config"
	"cmdbmcp/pkg/logging"
)

// TokenSource provides the session cookie for remote capabilities.
// *config.TokenCell satisfies it.
type TokenSource interface {
	Load() config.RedactedToken
}

// Registry maps (kind, name) to capability descriptors and dispatches invocations.
//
// Registration happens during startup. After Seal the registry is read-only
// and safe for concurrent Dispatch calls.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[string]*Descriptor
	order  []*Descriptor
	sealed bool

	tokens TokenSource
}

// NewRegistry creates an empty registry reading cookies from tokens.
func NewRegistry(tokens TokenSource) *Registry {
	return &Registry{
		byKey:  make(map[string]*Descriptor),
		tokens: tokens,
	}
}

// Register adds a descriptor. It fails on duplicates, invalid descriptors and
// after Seal.
func (r *Registry) Register(d Descriptor) error {
	if err := d.prepare(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("cannot register %s '%s': %w", d.Kind, d.Name, api.ErrRegistrySealed)
	}
	if _, exists := r.byKey[d.key()]; exists {
		return fmt.Errorf("%s '%s' is already registered", d.Kind, d.Name)
	}

	desc := d
	r.byKey[desc.key()] = &desc
	r.order = append(r.order, &desc)
	logging.Debug("Registry", "Registered %s '%s' (%d args, remote=%t)", desc.Kind, desc.Name, len(desc.Args), desc.Remote)
	return nil
}

// Seal freezes the registry. Further Register calls fail.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Lookup returns the descriptor for (kind, name).
func (r *Registry) Lookup(kind api.Kind, name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[string(kind)+"/"+name]
	return d, ok
}

// List returns descriptors of the given kind in registration order.
// An empty kind lists everything.
func (r *Registry) List(kind api.Kind) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Descriptor
	for _, d := range r.order {
		if kind == "" || d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// ResolveURI finds the resource whose URI or URI template matches uri and
// extracts the template variables as string arguments. Static URIs win over
// templates; templates are tried in registration order.
func (r *Registry) ResolveURI(uri string) (*Descriptor, map[string]interface{}, bool) {
	resources := r.List(api.KindResource)

	for _, d := range resources {
		if !d.IsTemplate() && d.URI == uri {
			return d, map[string]interface{}{}, true
		}
	}

	for _, d := range resources {
		if !d.IsTemplate() {
			continue
		}
		values := d.template.Match(uri)
		if values == nil {
			continue
		}
		args := make(map[string]interface{}, len(values))
		for _, name := range d.template.Varnames() {
			v := values.Get(name)
			if !v.Valid() {
				continue
			}
			if s := v.String(); s != "" {
				args[name] = s
			}
		}
		return d, args, true
	}

	return nil, nil, false
}

// ReadResource resolves uri to a resource and dispatches it.
func (r *Registry) ReadResource(ctx context.Context, uri string, notifier Notifier) (interface{}, error) {
	d, args, ok := r.ResolveURI(uri)
	if !ok {
		return nil, fmt.Errorf("resource '%s': %w", uri, api.ErrCapabilityNotRegistered)
	}
	return r.Dispatch(ctx, api.KindResource, d.Name, args, notifier)
}

// Dispatch binds rawArgs to the (kind, name) capability and runs its handler.
//
// Received -> Validated -> Executing-Local | Executing-Remote -> Succeeded | Failed
//
// Validation and missing-cookie failures happen before any side effect.
// Handler errors are returned unchanged. When ctx is cancelled, ctx.Err()
// is returned and any handler result is discarded.
func (r *Registry) Dispatch(ctx context.Context, kind api.Kind, name string, rawArgs map[string]interface{}, notifier Notifier) (interface{}, error) {
	d, ok := r.Lookup(kind, name)
	if !ok {
		return nil, fmt.Errorf("%s '%s': %w", kind, name, api.ErrCapabilityNotRegistered)
	}

	inv := &Invocation{
		ID:       uuid.NewString(),
		Kind:     kind,
		Name:     name,
		Notifier: orNop(notifier),
	}
	trace := func(state string, format string, args ...interface{}) {
		msg := fmt.Sprintf("[%s] %s/%s %s", logging.TruncateID(inv.ID), kind, name, state)
		if format != "" {
			msg += ": " + fmt.Sprintf(format, args...)
		}
		logging.Debug("Registry", "%s", msg)
	}
	trace("received", "")

	args, err := d.bind(rawArgs)
	if err != nil {
		trace("failed", "%v", err)
		return nil, err
	}
	inv.Args = args
	trace("validated", "")

	if d.Remote {
		inv.Token = r.loadToken()
		if inv.Token.IsEmpty() {
			err := api.NewConfigurationError("cmdb.cookie",
				fmt.Sprintf("CMDB cookie is not configured. Set %s or cmdb.cookieFile.", config.EnvCookie))
			trace("failed", "%v", err)
			return nil, err
		}
		trace("executing-remote", "")
	} else {
		trace("executing-local", "")
	}

	if err := ctx.Err(); err != nil {
		trace("failed", "%v", err)
		return nil, err
	}

	result, err := d.Handler(ctx, inv)
	if ctxErr := ctx.Err(); ctxErr != nil {
		trace("failed", "%v", ctxErr)
		return nil, ctxErr
	}
	if err != nil {
		trace("failed", "%s: %v", api.KindOf(err), err)
		return nil, err
	}

	trace("succeeded", "")
	return result, nil
}

func (r *Registry) loadToken() config.RedactedToken {
	if r.tokens == nil {
		return config.RedactedToken{}
	}
	return r.tokens.Load()
}

// ExpandURI expands the URI template of the named resource. Values are
// percent-encoded per RFC 6570, so the result resolves back to the same
// resource with the same arguments.
func (r *Registry) ExpandURI(name string, values map[string]string) (string, error) {
	d, ok := r.Lookup(api.KindResource, name)
	if !ok {
		return "", fmt.Errorf("resource '%s': %w", name, api.ErrCapabilityNotRegistered)
	}
	if d.template == nil {
		return d.URI, nil
	}

	vars := make(uritemplate.Values, len(values))
	for k, v := range values {
		vars.Set(k, uritemplate.String(v))
	}
	uri, err := d.template.Expand(vars)
	if err != nil {
		return "", fmt.Errorf("resource '%s': failed to expand URI: %w", name, err)
	}
	return uri, nil
}
