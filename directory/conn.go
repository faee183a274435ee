// Package directory implements the LDAP side of a profile query: one bound
// session per directory, filtered subtree searches streamed lazily, and the
// decoding of raw entries into the closed set of record kinds.
package directory

import (
	"context"
	"net"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"csequery/config"
)

// Entries is a lazily produced sequence of raw directory entries. It is
// finite, single-pass and not restartable.
type Entries interface {
	// Next advances to the next entry; false when exhausted or failed.
	Next() bool
	// Entry returns the entry Next advanced to.
	Entry() *Entry
	// Err reports the protocol-level failure that terminated the sequence.
	Err() error
}

// Searcher is the read surface the aggregation workflow depends on: one bound
// session with a fixed search base.
type Searcher interface {
	Search(ctx context.Context, filter string, attrs []string) (Entries, error)
	Close()
}

// Conn is one live session against one directory endpoint. It is bound once
// at connect time and discarded after the query phase that created it; a
// different bind identity needs a new connection.
type Conn struct {
	conn *ldap.Conn
	base string
	log  *zap.Logger
}

// Connect dials a directory endpoint. With a user it performs an
// authenticated simple bind as <user><bind suffix>; without one the session
// stays anonymous. A bind rejected for bad credentials surfaces as
// ErrInvalidCredentials, dial failures as TransportError.
func Connect(dir config.Directory, user, password string, log *zap.Logger) (*Conn, error) {
	conn, err := ldap.DialURL(dir.URL, ldap.DialWithDialer(&net.Dialer{Timeout: dir.Timeout}))
	if err != nil {
		return nil, &TransportError{URL: dir.URL, Err: err}
	}
	conn.SetTimeout(dir.Timeout)

	if user != "" {
		bindName := user + dir.BindSuffix
		log.Debug("simple bind", zap.String("url", dir.URL), zap.String("bind_name", bindName))
		if err := conn.Bind(bindName, password); err != nil {
			_ = conn.Close()
			return nil, translate("bind", err)
		}
	} else {
		log.Debug("anonymous session", zap.String("url", dir.URL))
	}

	return &Conn{conn: conn, base: dir.BaseDN, log: log}, nil
}

const searchBufferSize = 64

// Search issues a filtered subtree search under the connection's base and
// streams the matching entries. Zero matches is not an error at this layer;
// that call sits with the consumer of the stream.
func (c *Conn) Search(ctx context.Context, filter string, attrs []string) (Entries, error) {
	req := ldap.NewSearchRequest(
		c.base,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		filter,
		attrs,
		nil,
	)

	c.log.Debug("search",
		zap.String("base", c.base),
		zap.String("filter", filter),
		zap.Strings("attributes", attrs))

	return &ldapEntries{resp: c.conn.SearchAsync(ctx, req, searchBufferSize)}, nil
}

// Close tears the session down. The connection is not reusable afterwards.
func (c *Conn) Close() {
	if err := c.conn.Close(); err != nil {
		c.log.Debug("close", zap.Error(err))
	}
}

type ldapEntries struct {
	resp ldap.Response
}

func (s *ldapEntries) Next() bool    { return s.resp.Next() }
func (s *ldapEntries) Entry() *Entry { return newEntry(s.resp.Entry()) }
func (s *ldapEntries) Err() error    { return translate("search", s.resp.Err()) }
