package resolver

import (
	"fmt"

	"github.com/tsawler/pdfdecode/core"
)

// Table holds parsed indirect objects by reference. It satisfies
// core.ReferenceResolver, so a parser can look up a /Length defined
// earlier in the same input.
type Table map[core.IndirectRef]core.Object

// NewTable indexes objs. A later definition of the same reference wins.
func NewTable(objs []*core.IndirectObject) Table {
	t := make(Table, len(objs))
	for _, o := range objs {
		t.Add(o)
	}
	return t
}

// Add records o.
func (t Table) Add(o *core.IndirectObject) {
	t[o.Ref] = o.Object
}

// ResolveReference returns the object defined for ref.
func (t Table) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	obj, ok := t[ref]
	if !ok {
		return nil, fmt.Errorf("object %s not defined", ref)
	}
	return obj, nil
}

// ObjectResolver follows indirect references through a core.ReferenceResolver
// and can expand them inside dictionaries and arrays.
type ObjectResolver struct {
	refs         core.ReferenceResolver
	visited      map[core.IndirectRef]bool
	maxDepth     int
	currentDepth int
	prepare      func(*core.Stream)
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// WithStreamHook calls fn on every stream the resolver hands out, before
// it is returned. The root Decoder uses it to attach decode options.
func WithStreamHook(fn func(*core.Stream)) Option {
	return func(r *ObjectResolver) {
		r.prepare = fn
	}
}

// NewResolver creates a new object resolver
func NewResolver(refs core.ReferenceResolver, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		refs:     refs,
		visited:  make(map[core.IndirectRef]bool),
		maxDepth: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows obj while it is an indirect reference and returns the
// first direct object. Containers are returned as they are.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	defer r.Reset()
	return r.resolve(obj, false)
}

// ResolveDeep resolves obj and every reference nested in it. Dictionaries
// and arrays are copied, never modified.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	defer r.Reset()
	return r.resolve(obj, true)
}

// ResolveReference resolves ref shallowly, so an ObjectResolver can stand
// in wherever a font.Resolver-shaped lookup is needed.
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.Resolve(ref)
}

// ResolveDict deep-resolves a dictionary.
func (r *ObjectResolver) ResolveDict(dict core.Dict) (core.Dict, error) {
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Dict), nil
}

// ResolveArray deep-resolves an array.
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// Reset clears the visited set and depth counter.
func (r *ObjectResolver) Reset() {
	r.visited = make(map[core.IndirectRef]bool)
	r.currentDepth = 0
}

func (r *ObjectResolver) resolve(obj core.Object, deep bool) (core.Object, error) {
	if r.currentDepth >= r.maxDepth {
		return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if r.visited[v] {
			return nil, fmt.Errorf("circular reference detected for object %s", v)
		}
		// Unmarked on return so sibling branches may share an object.
		r.visited[v] = true
		defer delete(r.visited, v)

		resolved, err := r.refs.ResolveReference(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %s: %w", v, err)
		}
		r.currentDepth++
		resolved, err = r.resolve(resolved, deep)
		r.currentDepth--
		return resolved, err

	case core.Dict:
		if !deep {
			return v, nil
		}
		resolved := make(core.Dict, len(v))
		for key, value := range v {
			r.currentDepth++
			rv, err := r.resolve(value, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			resolved[key] = rv
		}
		return resolved, nil

	case core.Array:
		if !deep {
			return v, nil
		}
		resolved := make(core.Array, len(v))
		for i, elem := range v {
			r.currentDepth++
			re, err := r.resolve(elem, deep)
			r.currentDepth--
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = re
		}
		return resolved, nil

	case *core.Stream:
		if r.prepare != nil {
			r.prepare(v)
		}
		// A decoded stream no longer has raw bytes to rebuild from.
		if !deep || v.State() == core.StreamDecoded {
			return v, nil
		}
		r.currentDepth++
		dict, err := r.resolve(v.Dict, deep)
		r.currentDepth--
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		s := core.NewStream(dict.(core.Dict), v.RawData())
		s.ObjID, s.Gen = v.ObjID, v.Gen
		s.Decipher = v.Decipher
		s.Options = v.Options
		return s, nil

	default:
		return obj, nil
	}
}
