package session

// Credentials is the persisted identity triple. It is written and
// cleared as a single unit; no store may ever hold a partial triple.
type Credentials struct {
	Token    string
	UserID   string
	Username string
}

// Empty reports whether no credentials are stored.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.UserID == "" && c.Username == ""
}

// Store persists credentials across runs. Load returns empty
// credentials (not an error) when nothing is stored.
type Store interface {
	Load() (Credentials, error)
	Save(Credentials) error
	Clear() error
}
