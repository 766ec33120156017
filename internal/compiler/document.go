package compiler

// Document is the decoded form of a YAML or CUE aggregate document.
// The json tags are used when decoding CUE.
type Document struct {
	// Name identifies the document in reports.
	Name string `yaml:"name" json:"name"`

	// Description explains what the document models.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Kinds declares aggregate types by name.
	Kinds map[string]KindDecl `yaml:"kinds" json:"kinds"`

	// Bindings declares aggregate instances by name.
	Bindings map[string]BindingDecl `yaml:"bindings" json:"bindings"`

	// Checks lists the roots to evaluate, in order.
	Checks []CheckDecl `yaml:"checks" json:"checks"`
}

// KindDecl declares one aggregate type.
type KindDecl struct {
	// Mode is "conjoined" (default) or "disjoint".
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Fields lists the declared fields in declaration order.
	Fields []string `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// BindingDecl declares one aggregate instance.
type BindingDecl struct {
	Kind string `yaml:"kind" json:"kind"`

	// Data holds field values keyed by field name. Fields declared by the
	// kind but absent here are registered as null.
	Data map[string]any `yaml:"data,omitempty" json:"data,omitempty"`

	// Violations lists the local predicates that failed.
	Violations []string `yaml:"violations,omitempty" json:"violations,omitempty"`
}

// CheckDecl selects a root binding to evaluate.
type CheckDecl struct {
	Root   string       `yaml:"root" json:"root"`
	Expect *Expectation `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Expectation is the outcome a check asserts.
type Expectation struct {
	// Consistent, when set, must equal the root's IsConsistent.
	Consistent *bool `yaml:"consistent,omitempty" json:"consistent,omitempty"`

	// Labels, when set, must equal every reported label in report order.
	Labels []string `yaml:"labels,omitempty" json:"labels,omitempty"`
}
