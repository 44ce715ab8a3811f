package mailgateway

import (
	"strings"

	"github.com/emersion/go-message/mail"
)

const recipientSeparator = ";"

// SplitRecipients splits a semicolon-separated address list. Entries are
// trimmed and blanks dropped. An entry in "Name <addr>" form is reduced to the
// text between the angle brackets; anything else is kept as written.
func SplitRecipients(list string) []string {
	var out []string
	for _, part := range strings.Split(list, recipientSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, angleAddress(part))
	}
	return out
}

// angleAddress returns the bracketed address of a well-formed "Name <addr>"
// entry exactly as written, quoting included.
func angleAddress(entry string) string {
	open := strings.LastIndex(entry, "<")
	end := strings.LastIndex(entry, ">")
	if open < 0 || end < open {
		return entry
	}
	if _, err := mail.ParseAddress(entry); err != nil {
		return entry
	}
	return strings.TrimSpace(entry[open+1 : end])
}

func dropBlank(addrs []string) []string {
	var out []string
	for _, a := range addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
