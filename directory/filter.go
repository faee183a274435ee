package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

// Object classes matched by the three query filters.
const (
	ClassUser    = "user"
	ClassAccount = "account"
	ClassGroup   = "groupOfNames"
)

// AccountFilter matches entries whose common name equals cn and whose object
// class equals class. The value is filter-escaped, so identifiers containing
// filter metacharacters match literally instead of rewriting the expression.
func AccountFilter(class, cn string) string {
	return fmt.Sprintf("(&(cn=%s)(objectClass=%s))", ldap.EscapeFilter(cn), class)
}

// MemberFilter matches entries of the given class listing dn as a member.
func MemberFilter(class, dn string) string {
	return fmt.Sprintf("(&(member=%s)(objectClass=%s))", ldap.EscapeFilter(dn), class)
}
