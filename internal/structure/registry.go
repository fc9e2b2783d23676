package structure

import "fmt"

// FunctionRegistry holds the functions of a system, one List per kind.
// Names are unique across all kinds together.
type FunctionRegistry struct {
	LinearTransformations List[LinearTransformation]
	Sums                  List[Sum]
	VectorSums            List[VectorSum]
}

// Empty reports whether the registry holds no function of any kind.
func (r *FunctionRegistry) Empty() bool {
	return !r.LinearTransformations.Present() && !r.Sums.Present() && !r.VectorSums.Present()
}

// Names returns every function name in kind order (LinearTransformation,
// Sum, VectorSum), nil if the registry is empty.
func (r *FunctionRegistry) Names() []string {
	var names []string
	for _, f := range r.All() {
		names = append(names, f.FunctionName())
	}
	return names
}

// All returns every function in kind order, nil if the registry is empty.
func (r *FunctionRegistry) All() []Function {
	var out []Function
	for _, f := range r.LinearTransformations.Items() {
		out = append(out, f)
	}
	for _, f := range r.Sums.Items() {
		out = append(out, f)
	}
	for _, f := range r.VectorSums.Items() {
		out = append(out, f)
	}
	return out
}

// Lookup returns the function called name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	for _, f := range r.All() {
		if f.FunctionName() == name {
			return f, true
		}
	}
	return nil, false
}

// Add builds a function with NewFunction and appends it to its kind list.
// A name already used by a function of any kind is rejected.
func (r *FunctionRegistry) Add(name string, kind FunctionKind, params FunctionParams) (Function, error) {
	if _, exists := r.Lookup(name); exists {
		return nil, newError(CodeDuplicateName, name, "function name already in use")
	}
	f, err := NewFunction(name, kind, params)
	if err != nil {
		return nil, err
	}
	r.insert(f)
	return f, nil
}

func (r *FunctionRegistry) insert(f Function) {
	switch fn := f.(type) {
	case LinearTransformation:
		r.LinearTransformations.Append(fn)
	case Sum:
		r.Sums.Append(fn)
	case VectorSum:
		r.VectorSums.Append(fn)
	}
}

// Delete removes the function called name, searching the kinds in order.
func (r *FunctionRegistry) Delete(name string) (Function, error) {
	if f, ok := removeFunction(&r.LinearTransformations, name); ok {
		return f, nil
	}
	if f, ok := removeFunction(&r.Sums, name); ok {
		return f, nil
	}
	if f, ok := removeFunction(&r.VectorSums, name); ok {
		return f, nil
	}
	return nil, newError(CodeNotFound, name, "no such function")
}

func removeFunction[T Function](l *List[T], name string) (Function, bool) {
	i := l.Index(func(f T) bool { return f.FunctionName() == name })
	if i < 0 {
		return nil, false
	}
	return l.RemoveAt(i), true
}

// Clone returns a copy that shares no list storage with r.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	return &FunctionRegistry{
		LinearTransformations: r.LinearTransformations.Clone(),
		Sums:                  r.Sums.Clone(),
		VectorSums:            r.VectorSums.Clone(),
	}
}

// ToDict returns the Functions element with only the present kinds, or nil
// if the registry is empty.
func (r *FunctionRegistry) ToDict() Dict {
	if r == nil || r.Empty() {
		return nil
	}
	d := Dict{}
	putFunctions(d, KindLinearTransformation, r.LinearTransformations)
	putFunctions(d, KindSum, r.Sums)
	putFunctions(d, KindVectorSum, r.VectorSums)
	return d
}

func putFunctions[T Function](d Dict, kind FunctionKind, l List[T]) {
	if !l.Present() {
		return
	}
	items := make([]any, 0, l.Len())
	for _, f := range l.Items() {
		items = append(items, f.ToDict())
	}
	d[string(kind)] = items
}

// functionsFromDict decodes every function of a Functions element in kind order.
func functionsFromDict(d Dict, at string) ([]Function, error) {
	var out []Function
	for _, kind := range functionKindOrder {
		elems, err := childList(d, string(kind), at)
		if err != nil {
			return nil, err
		}
		for i, elem := range elems {
			f, err := FunctionFromDict(kind, elem, fmt.Sprintf("%s.%s[%d]", at, kind, i))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}
