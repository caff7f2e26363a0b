package reputation

type ErrorKind string

const (
	ErrUnknownIdentity ErrorKind = "UnknownIdentity"
	ErrNegativeAmount  ErrorKind = "NegativeAmount"
)

type Error struct {
	Kind ErrorKind
	Who  string
}

func (e *Error) Error() string {
	if e.Who == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Who
}

func newError(kind ErrorKind, who string) *Error {
	return &Error{Kind: kind, Who: who}
}
