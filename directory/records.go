package directory

// Item is the identity core shared by every record kind.
type Item struct {
	// DN is the entry's distinguished name.
	DN string
	// CN is the entry's common name.
	CN string
}

// Group as recorded by the department directory.
type Group struct {
	Item
}

// Account as recorded by the department directory.
type Account struct {
	Item
	// Aliases are the login aliases (uid values) in directory order.
	Aliases []string
}

// OrgAccount as recorded by the organization directory.
type OrgAccount struct {
	Item
	// DisplayName is the self-chosen human-readable name.
	DisplayName string
	// Name is the canonical organization-wide identifier.
	Name string
	// Mail is the email address.
	Mail string
	// Company is the faculty or business unit; empty when not recorded.
	Company string
	// Department is the department or school; empty when not recorded.
	Department string
}

// Schema pairs the attribute set to request with the decoder for one record
// kind. The set of kinds is closed, so decoding is a plain strategy table
// rather than any form of dynamic dispatch.
type Schema[R any] struct {
	// Attrs are the attributes to request; exactly what Decode consumes.
	Attrs []string
	// Decode turns one raw entry into a record of this kind.
	Decode func(e *Entry) (R, error)
}

var (
	GroupSchema = Schema[Group]{
		Attrs:  []string{"cn", "dn"},
		Decode: decodeGroup,
	}

	AccountSchema = Schema[Account]{
		Attrs:  []string{"cn", "dn", "uid"},
		Decode: decodeAccount,
	}

	OrgAccountSchema = Schema[OrgAccount]{
		Attrs:  []string{"cn", "dn", "company", "department", "displayName", "name", "mail"},
		Decode: decodeOrgAccount,
	}
)

// Decoders take the subtype's own attributes first, then delegate to
// decodeItem for the shared identity core.

func decodeItem(e *Entry) (Item, error) {
	dn := e.TakeDN()
	cn, err := e.Take("cn")
	if err != nil {
		return Item{}, err
	}
	return Item{DN: dn, CN: cn}, nil
}

func decodeGroup(e *Entry) (Group, error) {
	item, err := decodeItem(e)
	if err != nil {
		return Group{}, err
	}
	return Group{Item: item}, nil
}

func decodeAccount(e *Entry) (Account, error) {
	aliases, err := e.TakeAll("uid")
	if err != nil {
		return Account{}, err
	}
	item, err := decodeItem(e)
	if err != nil {
		return Account{}, err
	}
	return Account{Item: item, Aliases: aliases}, nil
}

func decodeOrgAccount(e *Entry) (OrgAccount, error) {
	company := e.TakeMaybe("company")
	department := e.TakeMaybe("department")

	displayName, err := e.Take("displayName")
	if err != nil {
		return OrgAccount{}, err
	}
	name, err := e.Take("name")
	if err != nil {
		return OrgAccount{}, err
	}
	mail, err := e.Take("mail")
	if err != nil {
		return OrgAccount{}, err
	}

	item, err := decodeItem(e)
	if err != nil {
		return OrgAccount{}, err
	}

	return OrgAccount{
		Item:        item,
		DisplayName: displayName,
		Name:        name,
		Mail:        mail,
		Company:     company,
		Department:  department,
	}, nil
}

// Results decodes a raw entry stream into records of one kind. Like the
// stream underneath it is single-pass and not restartable.
type Results[R any] struct {
	entries Entries
	schema  Schema[R]
}

// Decode wraps a raw entry stream with the decoder for one record kind.
func Decode[R any](entries Entries, schema Schema[R]) *Results[R] {
	return &Results[R]{entries: entries, schema: schema}
}

// Next advances to the next entry. It reports false once the stream is
// exhausted or has failed; Err distinguishes the two.
func (r *Results[R]) Next() bool { return r.entries.Next() }

// Record decodes the current entry. A failure here is scoped to this one
// record; the stream itself remains usable.
func (r *Results[R]) Record() (R, error) {
	return r.schema.Decode(r.entries.Entry())
}

// Err reports the protocol-level failure that terminated the stream, if any.
func (r *Results[R]) Err() error { return r.entries.Err() }

// First consumes and decodes the first record. An empty stream yields
// ErrInsufficientResults; entries beyond the first are never read.
func (r *Results[R]) First() (R, error) {
	var zero R
	if !r.Next() {
		if err := r.Err(); err != nil {
			return zero, err
		}
		return zero, ErrInsufficientResults
	}
	return r.Record()
}
