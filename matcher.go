package mdns

// pattern tags which template the matcher is currently walking. An explicit
// tag keeps the dispatch free of any buffer-identity tricks.
type pattern int

const (
	patternHeader pattern = iota
	patternName
)

// queryHeader is the expected prefix of an inbound query: transaction id 0
// and standard-query flags. The four count fields that follow are accepted
// with any value, because stacks disagree on what record types they ask for.
var queryHeader = [headerSize]byte{}

// countsOffset is the first wildcard position inside the header pattern.
const countsOffset = 4

// matcher recognizes "a query for our name has arrived" in a raw byte
// stream without buffering or parsing the datagram. It walks the query
// header and then the encoded name one byte at a time; any mismatch sends
// it back to the start of the header pattern.
//
// A mismatched byte is consumed rather than retried against the header, so
// a new query whose first byte coincides with the mismatch position is
// missed. That matches the long-standing behavior of this matcher and is
// kept on purpose.
type matcher struct {
	name []byte // encoded name, already lower case

	active         pattern
	pos            int
	labelRemaining int // bytes left in the current label; 0 means a length byte is next
}

func newMatcher(name []byte) *matcher {
	m := &matcher{name: name}
	m.reset(patternHeader)
	return m
}

func (m *matcher) reset(p pattern) {
	m.active = p
	m.pos = 0
	m.labelRemaining = 0
}

func (m *matcher) activeLen() int {
	if m.active == patternHeader {
		return headerSize
	}
	return len(m.name)
}

func (m *matcher) expected() byte {
	if m.active == patternHeader {
		return queryHeader[m.pos]
	}
	return m.name[m.pos]
}

// feed consumes one byte and reports whether it completed a full match of
// the name, meaning a reply should be sent.
func (m *matcher) feed(b byte) bool {
	ch := b
	// Inside a label the comparison is case insensitive; the stored name is
	// already lower case. Length bytes and the terminator compare exactly.
	if m.active == patternName && m.labelRemaining > 0 {
		ch = lower(ch)
	}

	if ch != m.expected() && !(m.active == patternHeader && m.pos >= countsOffset) {
		m.reset(patternHeader)
		return false
	}

	if m.active == patternName {
		if m.labelRemaining == 0 {
			m.labelRemaining = int(ch)
		} else {
			m.labelRemaining--
		}
	}

	m.pos++
	if m.pos < m.activeLen() {
		return false
	}
	if m.active == patternHeader {
		m.reset(patternName)
		return false
	}
	m.reset(patternHeader)
	return true
}

// scan feeds a whole datagram through the matcher in arrival order and
// returns how many complete queries for the name it contained. State is kept
// between calls, so a query split across datagrams still completes.
func (m *matcher) scan(payload []byte) int {
	hits := 0
	for _, b := range payload {
		if m.feed(b) {
			hits++
		}
	}
	return hits
}
