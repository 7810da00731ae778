package grove

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Context declares components and resolves them into an object graph.
// Use [New] to create one.
//
// Declarations are made first, then [Context.Resolve] runs once. Lookups are
// only answered after Resolve has succeeded; from then on the context is
// read-only and safe for concurrent lookups.
type Context struct {
	mu    sync.RWMutex
	phase Phase

	log       *slog.Logger
	registry  *Registry
	describer Describer
	factories []factory

	pending     []*pendingEntry
	store       *componentStore
	collections *synthesizer
}

// New creates a context. The context is declared as a component of its own
// type, so constructors may depend on *Context.
func New(opts ...ContextOption) *Context {
	c := &Context{
		log:         slog.New(slog.DiscardHandler),
		registry:    NewRegistry(),
		store:       newComponentStore(),
		collections: newSynthesizer(),
	}
	c.describer = c.registry

	for _, opt := range opts {
		opt(c)
	}

	c.pending = append(c.pending, newPendingEntry(
		Key{Type: reflect.TypeFor[*Context]()},
		reflect.ValueOf(c),
	))
	return c
}

// Phase returns the current phase of the context.
func (c *Context) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Resolve constructs every declared component. It repeats rounds over the
// pending declarations until a round makes no progress. If declarations are
// left at that point, it returns an *UnresolvedError listing them.
//
// Resolve may be called once. Constructors and late-init methods run on the
// calling goroutine; they must not declare further components.
func (c *Context) Resolve() error {
	c.mu.Lock()
	if c.phase != Declaring {
		c.mu.Unlock()
		return ErrAlreadyResolved
	}
	c.phase = Resolving
	c.mu.Unlock()

	err := c.run()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = Failed
		return err
	}
	c.phase = Resolved
	return nil
}

func (c *Context) run() error {
	for round := 1; ; round++ {
		progress := 0
		for _, e := range c.pending {
			v, ok, err := e.attempt(c.resolverFor(e), c.construct)
			if err != nil {
				c.log.Debug("component failed", "key", e.key, "round", round, "error", err)
				return fmt.Errorf("resolving %s: %w", e.key, err)
			}
			if !ok {
				continue
			}
			c.store.put(e.key, v)
			progress++
			c.log.Debug("component resolved", "key", e.key, "round", round)
		}

		c.pending = slices.DeleteFunc(c.pending, func(e *pendingEntry) bool { return e.consumed })
		c.log.Debug("resolution round", "round", round, "resolved", progress, "pending", len(c.pending))

		if progress == 0 || len(c.pending) == 0 {
			break
		}
	}

	if len(c.pending) == 0 {
		return nil
	}

	uerr := &UnresolvedError{}
	for _, e := range c.pending {
		name, missing := e.waiting()
		uerr.Entries = append(uerr.Entries, UnresolvedEntry{Key: e.key, Initializer: name, Missing: missing})
	}
	c.log.Warn("resolution incomplete", "pending", len(uerr.Entries))
	return uerr
}

// resolverFor returns the lookup used by entry self. A singular parameter is
// satisfied by exactly one resolved component with an assignable type and the
// same qualifier; several matches leave it open. A multiplicity parameter is
// synthesized once no other pending declaration could contribute to it.
func (c *Context) resolverFor(self *pendingEntry) resolverFunc {
	return func(p Param) (reflect.Value, bool) {
		if found := c.store.match(p.Type, p.Qualifier); found.len() == 1 {
			return found.values[0], true
		}

		return c.collections.synthesize(p.Type, p.Qualifier, c.store, func(content reflect.Type) bool {
			return c.pendingWhere(self, func(k Key) bool { return k.Type.AssignableTo(content) })
		})
	}
}

// pendingWhere reports whether an unconsumed entry other than self has a key
// accepted by pred.
func (c *Context) pendingWhere(self *pendingEntry, pred func(Key) bool) bool {
	for _, e := range c.pending {
		if e != self && !e.consumed && pred(e.key) {
			return true
		}
	}
	return false
}
