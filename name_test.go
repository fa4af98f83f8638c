package mdns

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeName(t *testing.T) {
	name, err := encodeName("mydevice")
	if err != nil {
		t.Fatalf("encodeName: %v", err)
	}

	want := []byte{8, 'm', 'y', 'd', 'e', 'v', 'i', 'c', 'e', 5, 'l', 'o', 'c', 'a', 'l', 0}
	if !bytes.Equal(name, want) {
		t.Fatalf("encoded name:\ngot  %v\nwant %v", name, want)
	}
	if len(name) != 8+len("mydevice") {
		t.Fatalf("name length: got %d, want %d", len(name), 8+len("mydevice"))
	}
}

func TestEncodeNameLowercases(t *testing.T) {
	upper, err := encodeName("MyDevice")
	if err != nil {
		t.Fatalf("encodeName: %v", err)
	}
	lowered, err := encodeName("mydevice")
	if err != nil {
		t.Fatalf("encodeName: %v", err)
	}
	if !bytes.Equal(upper, lowered) {
		t.Fatalf("mixed-case encoding differs:\ngot  %v\nwant %v", upper, lowered)
	}
}

func TestEncodeNameLengthLimit(t *testing.T) {
	longest := strings.Repeat("a", maxDomainLen)
	name, err := encodeName(longest)
	if err != nil {
		t.Fatalf("encodeName(255 chars): %v", err)
	}
	if len(name) != 8+maxDomainLen {
		t.Fatalf("name length: got %d, want %d", len(name), 8+maxDomainLen)
	}

	name, err = encodeName(longest + "a")
	if !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("encodeName(256 chars): got err %v, want ErrNameTooLong", err)
	}
	if name != nil {
		t.Fatalf("encodeName(256 chars): got buffer of %d bytes, want nil", len(name))
	}
}
