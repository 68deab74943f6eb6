package multiaddr

import (
	"errors"
	"testing"
)

func TestCodeToVarint(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"IP4", P_IP4},
		{"TCP", P_TCP},
		{"UDP", P_UDP},
		{"P2P", P_P2P},
		{"Zero", 0},
		{"Large", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := codeToVarint(tt.code)
			if len(b) == 0 {
				t.Error("codeToVarint returned empty bytes")
			}

			code, n, err := readVarintCode(b)
			if err != nil {
				t.Errorf("readVarintCode() error = %v", err)
			}
			if code != tt.code {
				t.Errorf("Round trip: got %d, want %d", code, tt.code)
			}
			if n != len(b) {
				t.Errorf("Bytes read mismatch: got %d, want %d", n, len(b))
			}
		})
	}
}

func TestReadVarintCode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    int
		wantN   int
		wantErr bool
	}{
		{"Valid small", []byte{0x04}, 4, 1, false},
		{"Valid large", []byte{0x90, 0x01}, 144, 2, false},
		{"Empty", []byte{}, 0, 0, true},
		{"Truncated", []byte{0x80}, 0, 0, true},
		{"Overflow int32", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x0f}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, n, err := readVarintCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("readVarintCode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrVarint) {
					t.Errorf("readVarintCode() error = %v, want ErrVarint", err)
				}
				return
			}
			if code != tt.want {
				t.Errorf("readVarintCode() code = %d, want %d", code, tt.want)
			}
			if n != tt.wantN {
				t.Errorf("readVarintCode() n = %d, want %d", n, tt.wantN)
			}
		})
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 4001, 1 << 20, 1 << 40}

	for _, v := range values {
		b := uvarintEncode(v)
		got, n, err := uvarintDecode(b)
		if err != nil {
			t.Fatalf("uvarintDecode(%d) error = %v", v, err)
		}
		if got != v {
			t.Errorf("Round trip: got %d, want %d", got, v)
		}
		if n != len(b) {
			t.Errorf("Bytes read mismatch: got %d, want %d", n, len(b))
		}
	}
}
