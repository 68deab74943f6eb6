package multiaddr

import (
	"bytes"
	"errors"
	"testing"
)

// TestStringToBytes 测试字符串到字节的编码
func TestStringToBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"IPv4 + TCP", "/ip4/127.0.0.1/tcp/4001", false},
		{"IPv6 + TCP", "/ip6/::1/tcp/4001", false},
		{"DNS + TCP", "/dns/example.com/tcp/80", false},
		{"Complex", "/ip4/1.2.3.4/tcp/4001/p2p/" + testPeerID, false},
		{"Unix path", "/unix/var/run/dep2p.sock", false},
		{"Empty", "", false},
		{"Root slash", "/", false},
		{"Trailing slashes", "/ip4/127.0.0.1//", false},
		{"No leading slash", "ip4/127.0.0.1", true},
		{"Unknown protocol", "/unknown/value", true},
		{"Missing value", "/ip4", true},
		{"Bad value", "/ip4/999.0.0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stringToBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("stringToBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestStringToBytesEmpty 测试空地址编码为空缓冲区
func TestStringToBytesEmpty(t *testing.T) {
	for _, s := range []string{"", "/", "///"} {
		b, err := stringToBytes(s)
		if err != nil {
			t.Fatalf("stringToBytes(%q) error = %v", s, err)
		}
		if len(b) != 0 {
			t.Errorf("stringToBytes(%q) = %x, want empty", s, b)
		}
	}
}

// TestBytesToString 测试字节到字符串的解码
func TestBytesToString(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr bool
	}{
		{
			"IPv4 + TCP",
			[]byte{0x04, 127, 0, 0, 1, 0x06, 0x0f, 0xa1},
			"/ip4/127.0.0.1/tcp/4001",
			false,
		},
		{
			"Empty",
			[]byte{},
			"",
			false,
		},
		{
			"Zero-size protocol",
			append([]byte{0x04, 1, 2, 3, 4, 0x91, 0x02, 0x0f, 0xa1}, codeToVarint(P_QUIC_V1)...),
			"/ip4/1.2.3.4/udp/4001/quic-v1",
			false,
		},
		{
			"Unknown code",
			[]byte{0xff, 0xff, 0x03},
			"",
			true,
		},
		{
			"Truncated fixed value",
			[]byte{0x04, 127, 0},
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bytesToString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("bytesToString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("bytesToString() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRoundTrip 测试编解码往返
func TestRoundTrip(t *testing.T) {
	tests := []string{
		"/ip4/127.0.0.1/tcp/4001",
		"/ip6/::1/tcp/4001",
		"/ip4/192.168.1.1/udp/4001/quic-v1",
		"/ip4/1.2.3.4/tcp/4001/p2p/" + testPeerID,
		"/dns/example.com/tcp/443/wss",
		"/dns4/test.local/tcp/8080",
		"/dns6/ipv6.local/tcp/9090",
		"/dnsaddr/bootstrap.example.com",
		"/ip6zone/eth0/ip6/fe80::1/udp/9090/quic-v1",
		"/unix/var/run/dep2p.sock",
		"/ip4/1.2.3.4/tcp/8080/unix/tmp/a.sock",
		"/onion/aaaqeayeaudaocaj:1234",
		"/ip4/127.0.0.1/tcp/4001/p2p/" + testPeerID + "/p2p-circuit/p2p/" + testPeerID,
	}

	for _, addr := range tests {
		t.Run(addr, func(t *testing.T) {
			b, err := stringToBytes(addr)
			if err != nil {
				t.Fatalf("stringToBytes() error = %v", err)
			}

			s, err := bytesToString(b)
			if err != nil {
				t.Fatalf("bytesToString() error = %v", err)
			}

			if s != addr {
				t.Errorf("RoundTrip: got %v, want %v", s, addr)
			}

			// 规范形式再解析必须得到相同字节
			b2, err := stringToBytes(s)
			if err != nil {
				t.Fatalf("stringToBytes(canonical) error = %v", err)
			}
			if !bytes.Equal(b, b2) {
				t.Errorf("canonical form re-parse differs: %x vs %x", b, b2)
			}
		})
	}
}

// TestCanonicalization 测试非规范拼写被规范化
func TestCanonicalization(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/ip6/0:0:0:0:0:0:0:1/tcp/4001", "/ip6/::1/tcp/4001"},
		{"/ip6/2001:DB8::1/tcp/1", "/ip6/2001:db8::1/tcp/1"},
		{"/ip4/127.0.0.1/tcp/4001///", "/ip4/127.0.0.1/tcp/4001"},
	}

	for _, tt := range tests {
		b, err := stringToBytes(tt.input)
		if err != nil {
			t.Fatalf("stringToBytes(%q) error = %v", tt.input, err)
		}
		s, err := bytesToString(b)
		if err != nil {
			t.Fatalf("bytesToString error = %v", err)
		}
		if s != tt.want {
			t.Errorf("canonical form of %q = %q, want %q", tt.input, s, tt.want)
		}
	}
}

// TestValidateBytes 测试字节验证
func TestValidateBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error // nil 表示期望成功
	}{
		{"Valid IPv4 + TCP", []byte{0x04, 127, 0, 0, 1, 0x06, 0x0f, 0xa1}, nil},
		{"Empty", []byte{}, nil},
		{"Unknown code", []byte{0xff, 0xff, 0x03}, ErrUnknownProtocol},
		{"Truncated fixed", []byte{0x04, 127, 0, 0}, ErrTruncated},
		{"Trailing garbage", []byte{0x04, 127, 0, 0, 1, 0x06, 0x0f, 0xa1, 0x00}, ErrUnknownProtocol},
		{"Truncated varint", []byte{0x80}, ErrVarint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBytes(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateBytes() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateBytes() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateBytesTruncatedVarSize 测试变长片段截断
func TestValidateBytesTruncatedVarSize(t *testing.T) {
	// /dns/example.com 的编码，然后截掉最后一个字节
	b, err := stringToBytes("/dns/example.com")
	if err != nil {
		t.Fatal(err)
	}

	err = validateBytes(b[:len(b)-1])
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("validateBytes(truncated) error = %v, want ErrTruncated", err)
	}

	// 长度前缀声明超过剩余字节
	bad := append([]byte{}, codeToVarint(P_DNS)...)
	bad = append(bad, 0x20, 'a', 'b')
	err = validateBytes(bad)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("validateBytes(bad length prefix) error = %v, want ErrTruncated", err)
	}
}

// TestSizeForAddr 测试大小解析
func TestSizeForAddr(t *testing.T) {
	tests := []struct {
		name       string
		proto      Protocol
		buf        []byte
		wantPrefix int
		wantData   int
		wantErr    bool
	}{
		{"Fixed ip4", ProtocolWithCode(P_IP4), []byte{1, 2, 3, 4}, 0, 4, false},
		{"Fixed tcp", ProtocolWithCode(P_TCP), []byte{0x0f, 0xa1}, 0, 2, false},
		{"Fixed truncated", ProtocolWithCode(P_IP4), []byte{1, 2}, 0, 0, true},
		{"Zero", ProtocolWithCode(P_QUIC_V1), nil, 0, 0, false},
		{"Var", ProtocolWithCode(P_DNS), []byte{0x03, 'a', 'b', 'c'}, 1, 3, false},
		{"Var truncated", ProtocolWithCode(P_DNS), []byte{0x05, 'a', 'b'}, 0, 0, true},
		{"Var empty buf", ProtocolWithCode(P_DNS), []byte{}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, data, err := sizeForAddr(tt.proto, tt.buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("sizeForAddr() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if prefix != tt.wantPrefix || data != tt.wantData {
				t.Errorf("sizeForAddr() = (%d, %d), want (%d, %d)", prefix, data, tt.wantPrefix, tt.wantData)
			}
		})
	}
}
