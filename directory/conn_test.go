package directory

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	godap "github.com/bradleypeabody/godap"
	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"csequery/config"
)

// startDirectory runs an in-process LDAP server accepting exactly one
// credential pair and answering every search with the given entries.
func startDirectory(t *testing.T, bindName, bindPass string, entries []*godap.LDAPSimpleSearchResultEntry) config.Directory {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &godap.LDAPServer{Listener: lis}
	srv.Handlers = append(srv.Handlers, &godap.LDAPBindFuncHandler{
		LDAPBindFunc: func(binddn string, bindpw []byte) bool {
			return binddn == bindName && string(bindpw) == bindPass
		},
	})
	srv.Handlers = append(srv.Handlers, &godap.LDAPSimpleSearchFuncHandler{
		LDAPSimpleSearchFunc: func(*godap.LDAPSimpleSearchRequest) []*godap.LDAPSimpleSearchResultEntry {
			return entries
		},
	})

	var group errgroup.Group
	group.Go(func() error {
		if err := srv.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})
	t.Cleanup(func() {
		_ = lis.Close()
		_ = group.Wait()
	})

	return config.Directory{
		URL:        "ldap://" + lis.Addr().String(),
		BaseDN:     "dc=cse,dc=test",
		BindSuffix: "@ad.test",
		Timeout:    5 * time.Second,
	}
}

func TestConnect_AuthenticatedBind(t *testing.T) {
	dir := startDirectory(t, "jdoe@ad.test", "secret", []*godap.LDAPSimpleSearchResultEntry{
		{
			DN:    "cn=staff,dc=cse,dc=test",
			Attrs: map[string]interface{}{"cn": "staff"},
		},
	})

	conn, err := Connect(dir, "jdoe", "secret", zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()

	entries, err := conn.Search(context.Background(), "(cn=staff)", GroupSchema.Attrs)
	require.NoError(t, err)

	group, err := Decode(entries, GroupSchema).First()
	require.NoError(t, err)
	assert.Equal(t, "staff", group.CN)
	assert.Equal(t, "cn=staff,dc=cse,dc=test", group.DN)
}

func TestConnect_InvalidCredentials(t *testing.T) {
	dir := startDirectory(t, "jdoe@ad.test", "secret", nil)

	_, err := Connect(dir, "jdoe", "wrong", zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConnect_TransportError(t *testing.T) {
	// Grab a port that nothing is listening on.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "ldap://" + lis.Addr().String()
	require.NoError(t, lis.Close())

	_, err = Connect(config.Directory{URL: url, Timeout: time.Second}, "", "", zap.NewNop())

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, url, transport.URL)
}

func TestSearch_AnonymousSession(t *testing.T) {
	dir := startDirectory(t, "unused", "unused", []*godap.LDAPSimpleSearchResultEntry{
		{
			DN:    "cn=z1111111,dc=cse,dc=test",
			Attrs: map[string]interface{}{"cn": "z1111111", "uid": "jdoe"},
		},
	})

	conn, err := Connect(dir, "", "", zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()

	entries, err := conn.Search(context.Background(), "(cn=z1111111)", AccountSchema.Attrs)
	require.NoError(t, err)

	account, err := Decode(entries, AccountSchema).First()
	require.NoError(t, err)
	assert.Equal(t, "z1111111", account.CN)
	assert.Equal(t, []string{"jdoe"}, account.Aliases)
}

func TestSearch_NoSuchObject(t *testing.T) {
	// godap answers an empty result set with noSuchObject rather than an
	// empty success, so a zero-match search surfaces the server's code 32.
	dir := startDirectory(t, "unused", "unused", []*godap.LDAPSimpleSearchResultEntry{})

	conn, err := Connect(dir, "", "", zap.NewNop())
	require.NoError(t, err)
	defer conn.Close()

	entries, err := conn.Search(context.Background(), "(cn=nobody)", GroupSchema.Attrs)
	require.NoError(t, err)

	_, err = Decode(entries, GroupSchema).First()

	var dirErr *DirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "search", dirErr.Op)
	assert.Equal(t, uint16(ldap.LDAPResultNoSuchObject), dirErr.Code)
}
