package store

// Registry holds known table key schemas for exact key matching.
//
// Without a registered schema, [Store.GetList] matches keys by subset
// comparison: every attribute of the lookup key must match the candidate,
// and extra candidate attributes are ignored. That is usually right, but a
// lookup key carrying non-key attributes could fail to match, and two
// distinct keys of different shapes could alias. Registering the table's
// key attribute names makes matching compare exactly those attributes.
type Registry struct {
	byTable map[string][]string
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byTable: make(map[string][]string),
	}
}

// Register records the key attribute names for a table.
// This should be called during init() for each table the store reads.
func (r *Registry) Register(table string, keyAttrs ...string) {
	attrs := make([]string, len(keyAttrs))
	copy(attrs, keyAttrs)
	r.byTable[table] = attrs
}

// KeyAttributes returns the registered key attribute names for a table,
// or nil when the table is not registered.
func (r *Registry) KeyAttributes(table string) []string {
	return r.byTable[table]
}

// Registered returns true if the table has a registered key schema.
func (r *Registry) Registered(table string) bool {
	return len(r.byTable[table]) > 0
}
