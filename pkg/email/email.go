package email

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// IsWellFormed reports whether addr is a local-part "@" domain address whose
// domain contains at least one dot.
func IsWellFormed(addr string) bool {
	// 254 is the RFC 5321 path limit
	if !govalidator.StringLength(addr, "3", "254") {
		return false
	}
	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	domain := addr[at+1:]
	if !strings.Contains(strings.Trim(domain, "."), ".") {
		return false
	}
	return govalidator.IsEmail(addr)
}
