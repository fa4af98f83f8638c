package mdns

import "testing"

// queryBytes builds the raw datagram an mDNS stack would send when asking
// for the given encoded name: a zeroed header with one question, the name,
// and trailing qtype/qclass bytes (A, IN).
func queryBytes(name []byte) []byte {
	q := []byte{0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}
	q = append(q, name...)
	q = append(q, 0x00, 0x01, 0x00, 0x01)
	return q
}

func mustName(t *testing.T, domain string) []byte {
	t.Helper()
	name, err := encodeName(domain)
	if err != nil {
		t.Fatalf("encodeName(%q): %v", domain, err)
	}
	return name
}

func assertState(t *testing.T, m *matcher, p pattern) {
	t.Helper()
	if m.active != p || m.pos != 0 || m.labelRemaining != 0 {
		t.Fatalf("matcher state: got {%v %d %d}, want {%v 0 0}",
			m.active, m.pos, m.labelRemaining, p)
	}
}

func TestMatcherMatchesQuery(t *testing.T) {
	name := mustName(t, "mydevice")
	m := newMatcher(name)

	if hits := m.scan(queryBytes(name)); hits != 1 {
		t.Fatalf("hits: got %d, want 1", hits)
	}
	assertState(t, m, patternHeader)
}

func TestMatcherCaseInsensitiveName(t *testing.T) {
	name := mustName(t, "mydevice")
	m := newMatcher(name)

	// Uppercase the label letters of the query; length bytes and the
	// terminator are not letters and stay as they are.
	loud := make([]byte, len(name))
	copy(loud, name)
	for i, b := range loud {
		if b >= 'a' && b <= 'z' {
			loud[i] = b - ('a' - 'A')
		}
	}

	if hits := m.scan(queryBytes(loud)); hits != 1 {
		t.Fatalf("hits for uppercase query: got %d, want 1", hits)
	}
}

func TestMatcherRejectsNonZeroIDAndFlags(t *testing.T) {
	name := mustName(t, "mydevice")

	for _, header := range [][]byte{
		{0x12, 0x34, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}, // transaction id set
		{0, 0, 0x84, 0, 0, 1, 0, 0, 0, 0, 0, 0},    // response flags set
	} {
		m := newMatcher(name)
		if hits := m.scan(header); hits != 0 {
			t.Fatalf("hits: got %d, want 0", hits)
		}
		if m.active != patternHeader {
			t.Fatalf("matcher left the header pattern on a bad header %v", header)
		}
	}
}

func TestMatcherIgnoresCountFields(t *testing.T) {
	name := mustName(t, "mydevice")
	m := newMatcher(name)

	header := []byte{0, 0, 0, 0, 0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04}
	if hits := m.scan(header); hits != 0 {
		t.Fatalf("hits: got %d, want 0", hits)
	}
	if m.active != patternName {
		t.Fatalf("matcher did not reach the name pattern; counts must be wildcards")
	}
}

func TestMatcherResetsOnMismatchedName(t *testing.T) {
	name := mustName(t, "mydevice")
	m := newMatcher(name)

	q := queryBytes(name)
	q[headerSize+4] = 'x' // flip one byte in the middle of the first label

	if hits := m.scan(q); hits != 0 {
		t.Fatalf("hits for mutated query: got %d, want 0", hits)
	}
	assertState(t, m, patternHeader)
}

func TestMatcherTwoQueriesInOneDatagram(t *testing.T) {
	name := mustName(t, "mydevice")
	m := newMatcher(name)

	q := queryBytes(name)
	if hits := m.scan(append(append([]byte{}, q...), q...)); hits != 2 {
		t.Fatalf("hits: got %d, want 2", hits)
	}
}

func TestMatcherStatePersistsAcrossDatagrams(t *testing.T) {
	name := mustName(t, "mydevice")
	m := newMatcher(name)

	q := queryBytes(name)
	mid := headerSize + len(name)/2 // split in the middle of the name

	if hits := m.scan(q[:mid]); hits != 0 {
		t.Fatalf("hits on first half: got %d, want 0", hits)
	}
	if hits := m.scan(q[mid:]); hits != 1 {
		t.Fatalf("hits on second half: got %d, want 1", hits)
	}
}
