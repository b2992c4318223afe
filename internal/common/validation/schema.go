package validation

// Rule validates a single field path of T. A rule without a Check is an
// optional field: it belongs to the schema but always passes.
type Rule[T any] struct {
	Path    string
	Code    string
	Message string
	Check   func(v T) bool
}

// Apply runs the rule and returns nil or exactly one error for its path.
func (r Rule[T]) Apply(v T) *ValidationError {
	if r.Check == nil || r.Check(v) {
		return nil
	}
	return &ValidationError{Field: r.Path, Message: r.Message, Code: r.Code}
}

// Optional declares a path that takes part in a schema without constraints.
func Optional[T any](path string) Rule[T] {
	return Rule[T]{Path: path}
}

// Fragment is a named, ordered set of rules keyed by field path.
type Fragment[T any] struct {
	Name  string
	rules []Rule[T]
	index map[string]int
}

// NewFragment builds a fragment. A repeated path replaces the earlier rule
// but keeps its position.
func NewFragment[T any](name string, rules ...Rule[T]) Fragment[T] {
	f := Fragment[T]{Name: name, index: make(map[string]int, len(rules))}
	for _, r := range rules {
		f.put(r)
	}
	return f
}

func (f *Fragment[T]) put(r Rule[T]) {
	if i, ok := f.index[r.Path]; ok {
		f.rules[i] = r
		return
	}
	f.index[r.Path] = len(f.rules)
	f.rules = append(f.rules, r)
}

// Paths returns the field paths in declaration order.
func (f Fragment[T]) Paths() []string {
	paths := make([]string, len(f.rules))
	for i, r := range f.rules {
		paths[i] = r.Path
	}
	return paths
}

// Rule returns the rule registered for path.
func (f Fragment[T]) Rule(path string) (Rule[T], bool) {
	i, ok := f.index[path]
	if !ok {
		return Rule[T]{}, false
	}
	return f.rules[i], true
}

// Has reports whether path belongs to the fragment.
func (f Fragment[T]) Has(path string) bool {
	_, ok := f.index[path]
	return ok
}

// Merge returns the union of fragments by path; later fragments win on
// conflicts. Merging a fragment that is already included changes nothing.
func Merge[T any](name string, fragments ...Fragment[T]) Fragment[T] {
	out := NewFragment[T](name)
	for _, f := range fragments {
		for _, r := range f.rules {
			out.put(r)
		}
	}
	return out
}

// Refinement inspects the whole value after field rules have run and
// returns any cross-field errors.
type Refinement[T any] func(v T) []ValidationError

// Schema is a fragment plus document-level refinements.
type Schema[T any] struct {
	fields      Fragment[T]
	refinements []Refinement[T]
}

func NewSchema[T any](fields Fragment[T], refinements ...Refinement[T]) *Schema[T] {
	return &Schema[T]{fields: fields, refinements: refinements}
}

// Fields exposes the schema's fragment.
func (s *Schema[T]) Fields() Fragment[T] {
	return s.fields
}

// Validate runs every field rule and then every refinement. Refinements run
// even when field rules fail.
func (s *Schema[T]) Validate(v T) *ValidationResult {
	var errs []ValidationError
	for _, r := range s.fields.rules {
		if err := r.Apply(v); err != nil {
			errs = append(errs, *err)
		}
	}
	for _, refine := range s.refinements {
		errs = append(errs, refine(v)...)
	}
	return NewResult(errs)
}

// ValidateFields runs only the rules for paths and never refinements.
// A path unknown to the schema yields an UNKNOWN_FIELD error.
func (s *Schema[T]) ValidateFields(v T, paths ...string) *ValidationResult {
	var errs []ValidationError
	for _, p := range paths {
		r, ok := s.fields.Rule(p)
		if !ok {
			errs = append(errs, ValidationError{Field: p, Message: "field not defined in schema", Code: "UNKNOWN_FIELD"})
			continue
		}
		if err := r.Apply(v); err != nil {
			errs = append(errs, *err)
		}
	}
	return NewResult(errs)
}

// ValidateField validates a single path.
func (s *Schema[T]) ValidateField(v T, path string) *ValidationResult {
	return s.ValidateFields(v, path)
}

// ValidateFragment validates the paths of f using this schema's rules.
func (s *Schema[T]) ValidateFragment(v T, f Fragment[T]) *ValidationResult {
	return s.ValidateFields(v, f.Paths()...)
}
