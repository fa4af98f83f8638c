package mdns

import "encoding/binary"

// Reply datagram layout: [header][name][A record][NSEC record]. The records
// are copied from fixed templates and then patched with the TTL and the
// local address at the offsets below.
const (
	headerSize     = 12
	aRecordSize    = 14
	nsecRecordSize = 20

	// recordTTLOffset skips the type and class fields of a record. The A
	// record starts directly with its type; the NSEC record carries a
	// two-byte compression pointer in front of it.
	recordTTLOffset   = 4
	nsecNamePtrSize   = 2
	aRecordAddrOffset = 10
	nsecTTLOffset     = aRecordSize + nsecNamePtrSize + recordTTLOffset
)

var responseHeader = [headerSize]byte{
	0x00, 0x00, // ID = 0
	0x84, 0x00, // flags = response + authoritative answer
	0x00, 0x00, // question count = 0
	0x00, 0x01, // answer count = 1
	0x00, 0x00, // name server records = 0
	0x00, 0x01, // additional records = 1
}

var aRecord = [aRecordSize]byte{
	0x00, 0x01, // type = 1, A record
	0x80, 0x01, // class = Internet, with cache-flush bit
	0x00, 0x00, 0x00, 0x00, // TTL, patched in below
	0x00, 0x04, // record length
	0x00, 0x00, 0x00, 0x00, // IPv4 address, patched in below
}

// nsecRecord negatively answers AAAA queries: the bitmap marks only the A
// type as present, telling peers not to wait for an IPv6 record.
var nsecRecord = [nsecRecordSize]byte{
	0xC0, 0x0C, // name = pointer to offset 12, start of the name section
	0x00, 0x2F, // type = 47, NSEC
	0x80, 0x01, // class = Internet, with cache-flush bit
	0x00, 0x00, 0x00, 0x00, // TTL, patched in below
	0x00, 0x08, // record length
	0xC0, 0x0C, // next domain = same pointer
	0x00,                   // block number = 0
	0x04,                   // bitmap length
	0x40, 0x00, 0x00, 0x00, // bitmap = only the A bit set
}

// buildResponse assembles the complete reply datagram for the given encoded
// name, record TTL and local IPv4 address. The buffer is built once per
// Begin and sent verbatim afterwards.
func buildResponse(name []byte, ttlSeconds uint32, addr [4]byte) ([]byte, error) {
	resp := make([]byte, 0, headerSize+len(name)+aRecordSize+nsecRecordSize)
	resp = append(resp, responseHeader[:]...)
	resp = append(resp, name...)
	resp = append(resp, aRecord[:]...)
	resp = append(resp, nsecRecord[:]...)

	records := resp[headerSize+len(name):]
	if recordTTLOffset+4 > aRecordSize ||
		aRecordAddrOffset+4 > aRecordSize ||
		nsecTTLOffset+4 > len(records) {
		return nil, errResponseLayout
	}

	binary.BigEndian.PutUint32(records[recordTTLOffset:], ttlSeconds)
	binary.BigEndian.PutUint32(records[nsecTTLOffset:], ttlSeconds)
	copy(records[aRecordAddrOffset:], addr[:])
	return resp, nil
}
