package grove

import "log/slog"

// options holds the settings a declaration or constructor registration
// accepts.
type options struct {
	qualifier       Qualifier
	designated      bool
	paramQualifiers []string
}

// Option configures a declaration or a constructor registration.
type Option func(*options)

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Qualified declares the component under the qualifier name.
func Qualified(name string) Option {
	return func(o *options) {
		o.qualifier = Named(name)
	}
}

// Designated marks a constructor as the one to use when its result type has
// several constructors.
func Designated() Option {
	return func(o *options) {
		o.designated = true
	}
}

// ParamQualifiers sets the qualifiers of a constructor's parameters by
// position. An empty string leaves that parameter unqualified. Parameters
// beyond the list are unqualified. Parameter structs embedding [In] use field
// tags instead.
func ParamQualifiers(names ...string) Option {
	return func(o *options) {
		o.paramQualifiers = names
	}
}

// ContextOption configures a [Context] at construction.
type ContextOption func(*Context)

// WithLogger sets the logger that receives resolution diagnostics. The
// default discards everything.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDescriber replaces the source of initializer metadata. Constructors
// registered with [Context.Constructor] are only consulted by the default
// describer.
func WithDescriber(d Describer) ContextOption {
	return func(c *Context) {
		if d != nil {
			c.describer = d
		}
	}
}

// WithLateInitPrefix changes the method name prefix that marks late-init
// methods on the default describer. The default is "LateInit".
func WithLateInitPrefix(prefix string) ContextOption {
	return func(c *Context) {
		c.registry.lateInitPrefix = prefix
	}
}
