package client

// Mode names where a Store reads and writes todos.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Source selects the backing collection of a Store. It is either Remote
// (a signed-in session) or Local (this machine only).
type Source interface {
	Mode() Mode
	source()
}

// Remote reads and writes the signed-in user's todos on the server.
type Remote struct {
	Token string
}

func (Remote) Mode() Mode { return ModeRemote }
func (Remote) source()    {}

// Local reads and writes the on-device collection.
type Local struct{}

func (Local) Mode() Mode { return ModeLocal }
func (Local) source()    {}

// SourceFor picks Remote when a session token is present, Local otherwise.
func SourceFor(token string) Source {
	if token == "" {
		return Local{}
	}
	return Remote{Token: token}
}
