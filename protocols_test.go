package multiaddr

import (
	"bytes"
	"testing"
)

// TestProtocolWithCode 测试按代码查找协议
func TestProtocolWithCode(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantName string
		found    bool
	}{
		{"IP4", P_IP4, "ip4", true},
		{"TCP", P_TCP, "tcp", true},
		{"UDP", P_UDP, "udp", true},
		{"P2P", P_P2P, "p2p", true},
		{"QUIC-V1", P_QUIC_V1, "quic-v1", true},
		{"Unknown", 0x7FFF, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proto := ProtocolWithCode(tt.code)
			if tt.found && proto.Code == 0 {
				t.Fatalf("ProtocolWithCode(%d) not found", tt.code)
			}
			if !tt.found && proto.Code != 0 {
				t.Fatalf("ProtocolWithCode(%d) = %v, want zero value", tt.code, proto)
			}
			if proto.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", proto.Name, tt.wantName)
			}
		})
	}
}

// TestProtocolWithName 测试按名称查找协议
func TestProtocolWithName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode int
	}{
		{"ip4", "ip4", P_IP4},
		{"tcp", "tcp", P_TCP},
		{"dnsaddr", "dnsaddr", P_DNSADDR},
		{"ipfs alias", "ipfs", P_P2P},
		{"unix", "unix", P_UNIX},
		{"unknown", "nope", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proto := ProtocolWithName(tt.input)
			if proto.Code != tt.wantCode {
				t.Errorf("ProtocolWithName(%q).Code = %d, want %d", tt.input, proto.Code, tt.wantCode)
			}
		})
	}
}

// TestProtocolVCode 测试预计算的 varint 编码与代码一致
func TestProtocolVCode(t *testing.T) {
	for _, proto := range SupportedProtocols() {
		if !bytes.Equal(proto.VCode, codeToVarint(proto.Code)) {
			t.Errorf("protocol %s: VCode mismatch", proto.Name)
		}
	}
}

// TestProtocolTableConsistency 测试两个索引指向同一描述符
func TestProtocolTableConsistency(t *testing.T) {
	for name, proto := range protocolsByName {
		byCode := ProtocolWithCode(proto.Code)
		if byCode.Code != proto.Code {
			t.Errorf("protocol %s: missing from code index", name)
		}

		// 别名（ipfs 等）允许名称不同
		if name != proto.Name && byCode.Name != proto.Name {
			t.Errorf("alias %s: points to %s, code index has %s", name, proto.Name, byCode.Name)
		}
	}

	for code, proto := range protocols {
		if proto.Code != code {
			t.Errorf("code index %d: descriptor carries code %d", code, proto.Code)
		}
		if protocolsByName[proto.Name].Code != code {
			t.Errorf("protocol %s: missing from name index", proto.Name)
		}
	}
}

// TestProtocolSizes 测试地址宽度类别
func TestProtocolSizes(t *testing.T) {
	tests := []struct {
		code int
		size int
	}{
		{P_IP4, 32},
		{P_IP6, 128},
		{P_TCP, 16},
		{P_UDP, 16},
		{P_IPCIDR, 8},
		{P_DNS, LengthPrefixedVarSize},
		{P_P2P, LengthPrefixedVarSize},
		{P_UNIX, LengthPrefixedVarSize},
		{P_QUIC_V1, 0},
		{P_HTTP, 0},
	}

	for _, tt := range tests {
		proto := ProtocolWithCode(tt.code)
		if proto.Size != tt.size {
			t.Errorf("protocol %s: Size = %d, want %d", proto.Name, proto.Size, tt.size)
		}
	}
}

// TestProtocolFlags 测试 Path/Resolvable 标志
func TestProtocolFlags(t *testing.T) {
	if !ProtocolWithCode(P_UNIX).Path {
		t.Error("unix should be path-flagged")
	}
	if ProtocolWithCode(P_TCP).Path {
		t.Error("tcp should not be path-flagged")
	}

	for _, name := range []string{"dns", "dns4", "dns6", "dnsaddr"} {
		if !ProtocolWithName(name).Resolvable {
			t.Errorf("%s should be resolvable", name)
		}
	}
	if ProtocolWithCode(P_IP4).Resolvable {
		t.Error("ip4 should not be resolvable")
	}
}

// TestProtocolsWithString 测试字符串协议名提取
func TestProtocolsWithString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"Simple", "/ip4/127.0.0.1/tcp/4001", []string{"ip4", "tcp"}, false},
		{"Zero-size tail", "/ip4/1.2.3.4/udp/4001/quic-v1", []string{"ip4", "udp", "quic-v1"}, false},
		{"Path", "/unix/var/run/sock", []string{"unix"}, false},
		{"Empty", "", nil, false},
		{"Unknown", "/bogus/1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProtocolsWithString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ProtocolsWithString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ProtocolsWithString() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ProtocolsWithString()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
