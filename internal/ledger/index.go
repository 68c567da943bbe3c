package ledger

// UserIndex maintains, per account, an append-only ordered list of record
// ids. Appends are O(1); enumeration returns ids in insertion (creation)
// order. No deletion path exists, so the lists only grow.
type UserIndex struct {
	ids map[string][]string
}

// NewUserIndex returns an empty index.
func NewUserIndex() *UserIndex {
	return &UserIndex{ids: make(map[string][]string)}
}

// Append adds id to the end of account's list.
func (x *UserIndex) Append(account, id string) {
	x.ids[account] = append(x.ids[account], id)
}

// List returns a copy of account's ids in insertion order. Accounts with no
// entries yield an empty slice.
func (x *UserIndex) List(account string) []string {
	src := x.ids[account]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Len returns the number of ids recorded for account.
func (x *UserIndex) Len(account string) int {
	return len(x.ids[account])
}
