// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestLacing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want []byte
	}{
		{"empty", 0, []byte{0}},
		{"small", 10, []byte{10}},
		{"just below segment", 254, []byte{254}},
		{"exact segment", 255, []byte{255, 0}},
		{"one and a bit", 300, []byte{255, 45}},
		{"two exact segments", 510, []byte{255, 255, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Lacing(tt.n)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lacing(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestChecksum_KnownValue(t *testing.T) {
	t.Parallel()

	// CRC-32/OGG of "123456789" is 0x89a1897f.
	got := Checksum([]byte("123456789"))
	if got != 0x89a1897f {
		t.Errorf("Checksum() = %#x, want %#x", got, 0x89a1897f)
	}
}

func TestPage_EncodeReadRoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0xAB}, 300)
	p := &Page{
		Flags:    FlagBOS,
		Granule:  4410,
		Serial:   0xCAFEBABE,
		Sequence: 7,
		Segments: Lacing(len(payload)),
		Payload:  payload,
	}

	got, err := ReadPage(bytes.NewReader(p.Encode()))
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}

	if got.Serial != p.Serial {
		t.Errorf("Serial = %#x, want %#x", got.Serial, p.Serial)
	}
	if got.Sequence != p.Sequence {
		t.Errorf("Sequence = %d, want %d", got.Sequence, p.Sequence)
	}
	if got.Granule != p.Granule {
		t.Errorf("Granule = %d, want %d", got.Granule, p.Granule)
	}
	if !got.IsBOS() || got.IsEOS() || got.IsContinued() {
		t.Errorf("flags = %#x, want BOS only", got.Flags)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Error("Payload mismatch after round trip")
	}
}

func TestReadPage_Errors(t *testing.T) {
	t.Parallel()

	valid := (&Page{Segments: []byte{3}, Payload: []byte{1, 2, 3}}).Encode()

	corrupt := bytes.Clone(valid)
	corrupt[len(corrupt)-1] ^= 0xFF

	badVersion := bytes.Clone(valid)
	badVersion[4] = 1

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty input", nil, io.EOF},
		{"not ogg", []byte("This is definitely not an Ogg page!"), ErrCapturePattern},
		{"short header", valid[:10], ErrTruncatedPage},
		{"short payload", valid[:len(valid)-1], ErrTruncatedPage},
		{"bad checksum", corrupt, ErrChecksum},
		{"bad version", badVersion, ErrVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadPage(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadPage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPage_Open(t *testing.T) {
	t.Parallel()

	if (&Page{Segments: []byte{255, 10}}).Open() {
		t.Error("Open() = true for page ending with a short segment")
	}
	if !(&Page{Segments: []byte{10, 255}}).Open() {
		t.Error("Open() = false for page ending with a full segment")
	}
	if (&Page{}).Open() {
		t.Error("Open() = true for page without segments")
	}
}
