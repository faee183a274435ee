package directory

import (
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translate("bind", nil))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		err := translate("bind", ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("80090308: LdapErr")))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("other result code", func(t *testing.T) {
		cause := ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("no such base"))

		err := translate("search", cause)

		var dirErr *DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.Equal(t, "search", dirErr.Op)
		assert.Equal(t, uint16(ldap.LDAPResultNoSuchObject), dirErr.Code)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "code 32")
	})

	t.Run("network failure", func(t *testing.T) {
		cause := ldap.NewError(ldap.ErrorNetwork, errors.New("connection reset"))

		err := translate("search", cause)

		var transport *TransportError
		require.ErrorAs(t, err, &transport)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("non-ldap error", func(t *testing.T) {
		cause := errors.New("boom")

		err := translate("search", cause)

		var dirErr *DirectoryError
		require.ErrorAs(t, err, &dirErr)
		assert.Zero(t, dirErr.Code)
		assert.ErrorIs(t, err, cause)
	})
}

func TestAttributeMissingError(t *testing.T) {
	err := &AttributeMissingError{Name: "mail"}
	assert.Equal(t, "response was missing attribute: mail", err.Error())
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("dial", func(t *testing.T) {
		err := &TransportError{URL: "ldaps://ad.unsw.edu.au/", Err: cause}
		assert.Equal(t, "connect ldaps://ad.unsw.edu.au/: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("mid-session", func(t *testing.T) {
		err := &TransportError{Err: cause}
		assert.Equal(t, "network failure: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestEncodingError(t *testing.T) {
	cause := errors.New("unsupported value")
	err := &EncodingError{Err: cause}

	assert.Contains(t, err.Error(), "encode profile")
	assert.ErrorIs(t, err, cause)
}
