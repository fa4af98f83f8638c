package mdns

// maxDomainLen is the longest host name Begin accepts. The whole name has to
// fit a single length-prefixed label, so one length byte bounds it.
const maxDomainLen = 255

// localSuffixLen is the wire size of the fixed tail appended to every
// encoded name: the "local" label (length byte plus five letters) and the
// terminating zero-length label.
const localSuffixLen = 7

// encodeName turns a bare host name into the DNS wire-format name
// <len><domain><5>"local"<0>. Domain characters are stored lower case; the
// result doubles as the match pattern for inbound questions and as the name
// echoed back in the prebuilt response.
func encodeName(domain string) ([]byte, error) {
	if len(domain) > maxDomainLen {
		return nil, ErrNameTooLong
	}

	name := make([]byte, 0, 1+len(domain)+localSuffixLen)
	name = append(name, byte(len(domain)))
	for i := 0; i < len(domain); i++ {
		name = append(name, lower(domain[i]))
	}
	name = append(name, 5, 'l', 'o', 'c', 'a', 'l', 0)
	return name, nil
}

// lower folds a single ASCII byte. Length bytes, digits and hyphens pass
// through unchanged.
func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
