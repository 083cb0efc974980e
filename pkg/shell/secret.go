package shell

// Mask replaces secret payloads in every default rendering.
const Mask = "**********"

// Atom is a command-line fragment: a plain token, a secret, or a delimited
// composite. String returns the display form, Reveal the clear form.
type Atom interface {
	String() string
	Reveal() string
}

// Plain is an atom with nothing to hide.
type Plain string

func (p Plain) String() string { return string(p) }

// Reveal returns the token unchanged.
func (p Plain) Reveal() string { return string(p) }

// Secret wraps a sensitive value. It never exposes its payload through any
// default rendering; only Reveal returns the clear value.
type Secret struct {
	value string
}

// NewSecret wraps a clear value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

func (s Secret) String() string { return Mask }

// GoString keeps %#v from leaking the payload.
func (s Secret) GoString() string { return "shell.Secret{" + Mask + "}" }

// Reveal returns the clear value. Call it only when handing the value to
// the operating system.
func (s Secret) Reveal() string { return s.value }
