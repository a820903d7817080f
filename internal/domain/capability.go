package domain

// Capability is an opaque token proving its holder passed the admin
// check for the configured chat. The zero value grants nothing.
type Capability struct {
	Token string
}

func (c Capability) Valid() bool {
	return c.Token != ""
}
