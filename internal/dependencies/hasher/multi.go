package hasher

// Multi hashes with a primary scheme and verifies with whichever supported
// scheme produced the stored hash
type Multi struct {
	primary Scheme
	schemes []Scheme
}

var _ Hasher = (*Multi)(nil)

// NewMulti creates a Multi. Extra schemes are only used for verification.
func NewMulti(primary Scheme, extra ...Scheme) *Multi {
	return &Multi{
		primary: primary,
		schemes: append([]Scheme{primary}, extra...),
	}
}

// Primary returns the name of the scheme used for new hashes
func (m *Multi) Primary() string {
	return m.primary.Name()
}

func (m *Multi) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *Multi) Compare(hash, password string) error {
	for _, s := range m.schemes {
		if s.Recognizes(hash) {
			return s.Compare(hash, password)
		}
	}
	return ErrUnsupportedHash
}
