package multiaddr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"github.com/mr-tron/base58"
)

// Multiaddr 是自描述的网络地址接口
//
// 实例在构造后不可变，可在多个 goroutine 间安全共享。
// 所有派生视图都从内部字节缓冲区按需计算。
type Multiaddr interface {
	// Bytes 返回二进制表示（不要修改返回的字节，可能是共享的）
	Bytes() []byte

	// String 返回规范字符串表示
	String() string

	// Equal 判断两个地址是否相等（按字节比较，不受文本拼写影响）
	Equal(Multiaddr) bool

	// Protocols 返回地址包含的协议列表（从左到右）
	Protocols() []Protocol

	// ProtocolCodes 返回地址包含的协议代码列表
	ProtocolCodes() []int

	// ProtocolNames 返回地址包含的协议名称列表
	ProtocolNames() []string

	// Tuples 返回片段的二进制视图
	Tuples() []Tuple

	// StringTuples 返回片段的文本视图
	StringTuples() []StringTuple

	// ValueForProtocol 获取指定协议代码的值
	ValueForProtocol(code int) (string, error)

	// Encapsulate 封装另一个地址（本地址在外层）
	Encapsulate(Multiaddr) Multiaddr

	// Decapsulate 解封装：移除 other 在字符串形式中最后一次出现
	// 及其之后的全部内容；未找到时返回 ErrNotFound
	Decapsulate(Multiaddr) (Multiaddr, error)

	// DecapsulateCode 移除最后一个匹配代码的片段及其之后的内容；
	// 无匹配时返回原地址
	DecapsulateCode(code int) Multiaddr

	// PeerID 提取最后一个 p2p 片段的 peer ID（base58 形式）；
	// 不存在或解码失败时返回 false，从不返回错误
	PeerID() (string, bool)

	// Path 提取第一个路径协议片段的值；
	// 不存在或值为空时返回 false
	Path() (string, bool)

	// IsThinWaist 判断是否为 thin-waist 地址：
	// 恰好两个片段，网络层（ip4/ip6）+ 传输层（tcp/udp）
	IsThinWaist() bool

	// ToNodeAddress 转换为 {family, address, port} 记录
	ToNodeAddress() (*NodeAddress, error)

	// ToTCPAddr 转换为 TCP 地址
	ToTCPAddr() (*net.TCPAddr, error)

	// ToUDPAddr 转换为 UDP 地址
	ToUDPAddr() (*net.UDPAddr, error)
}

// multiaddr 是 Multiaddr 接口的实现
type multiaddr struct {
	bytes []byte
}

// NewMultiaddr 从字符串创建多地址
func NewMultiaddr(s string) (Multiaddr, error) {
	b, err := stringToBytes(s)
	if err != nil {
		return nil, err
	}
	return &multiaddr{bytes: b}, nil
}

// NewMultiaddrBytes 从字节创建多地址
func NewMultiaddrBytes(b []byte) (Multiaddr, error) {
	if err := validateBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMultiaddr, err)
	}
	// 复制一份避免外部修改
	buf := make([]byte, len(b))
	copy(buf, b)
	return &multiaddr{bytes: buf}, nil
}

// Cast 从字节强制创建多地址（不验证）
// 警告：仅用于已知有效的地址
func Cast(b []byte) Multiaddr {
	return &multiaddr{bytes: b}
}

// Bytes 返回二进制表示
func (m *multiaddr) Bytes() []byte {
	return m.bytes
}

// String 返回字符串表示
func (m *multiaddr) String() string {
	s, err := bytesToString(m.bytes)
	if err != nil {
		// 不应该发生，构造时已验证
		panic(fmt.Errorf("multiaddr failed to convert to string: %w", err))
	}
	return s
}

// Equal 判断两个地址是否相等
func (m *multiaddr) Equal(other Multiaddr) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(m.bytes, other.Bytes())
}

// Protocols 返回地址包含的协议列表
func (m *multiaddr) Protocols() []Protocol {
	tuples := m.Tuples()
	out := make([]Protocol, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, ProtocolWithCode(t.Code))
	}
	return out
}

// ProtocolCodes 返回地址包含的协议代码列表
func (m *multiaddr) ProtocolCodes() []int {
	tuples := m.Tuples()
	out := make([]int, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, t.Code)
	}
	return out
}

// ProtocolNames 返回地址包含的协议名称列表
func (m *multiaddr) ProtocolNames() []string {
	tuples := m.Tuples()
	out := make([]string, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, ProtocolWithCode(t.Code).Name)
	}
	return out
}

// Tuples 返回片段的二进制视图
func (m *multiaddr) Tuples() []Tuple {
	tuples, err := bytesToTuples(m.bytes)
	if err != nil {
		// 不应该发生，构造时已验证
		panic(fmt.Errorf("multiaddr failed to decode tuples: %w", err))
	}
	return tuples
}

// StringTuples 返回片段的文本视图
func (m *multiaddr) StringTuples() []StringTuple {
	out, err := tuplesToStringTuples(m.Tuples())
	if err != nil {
		panic(fmt.Errorf("multiaddr failed to decode string tuples: %w", err))
	}
	return out
}

// ValueForProtocol 获取指定协议代码的值
func (m *multiaddr) ValueForProtocol(code int) (string, error) {
	proto := ProtocolWithCode(code)
	if proto.Code == 0 {
		return "", fmt.Errorf("%w: code %d", ErrUnknownProtocol, code)
	}

	for _, t := range m.Tuples() {
		if t.Code != code {
			continue
		}
		if proto.Size == 0 {
			// 找到了，但无值
			return "", nil
		}
		return proto.Transcoder.BytesToString(t.Value)
	}

	return "", fmt.Errorf("%w: %s", ErrProtocolNotFound, proto.Name)
}

// Encapsulate 封装另一个地址
//
// 拼接两者的字符串形式后重新解析，组合地址经过完整再验证。
func (m *multiaddr) Encapsulate(other Multiaddr) Multiaddr {
	if other == nil {
		return m
	}

	ret, err := NewMultiaddr(m.String() + other.String())
	if err != nil {
		// 不应该发生，两个合法地址的拼接仍是合法文本
		panic(fmt.Errorf("multiaddr failed to encapsulate: %w", err))
	}
	return ret
}

// Decapsulate 解封装
//
// 在本地址的字符串形式中查找 other 字符串形式的最后一次出现，
// 返回其之前的全部内容。最右匹配在相同后缀重复出现时有意义。
func (m *multiaddr) Decapsulate(other Multiaddr) (Multiaddr, error) {
	if other == nil {
		return m, nil
	}

	s := m.String()
	sub := other.String()

	idx := strings.LastIndex(s, sub)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, sub, s)
	}

	return NewMultiaddr(s[:idx])
}

// DecapsulateCode 按协议代码解封装
//
// 从尾部向前扫描片段，移除最后一个匹配片段及其之后的全部内容。
// 无匹配时返回原地址（从不失败）。
func (m *multiaddr) DecapsulateCode(code int) Multiaddr {
	tuples := m.Tuples()
	for i := len(tuples) - 1; i >= 0; i-- {
		if tuples[i].Code != code {
			continue
		}
		b, err := tuplesToBytes(tuples[:i])
		if err != nil {
			// 不应该发生，片段来自已验证的地址
			panic(fmt.Errorf("multiaddr failed to decapsulate: %w", err))
		}
		return &multiaddr{bytes: b}
	}
	return m
}

// PeerID 提取 peer ID
//
// 取最后一个 p2p 片段的值（裸 multihash 字节），以 base58 重新编码。
// 任何内部失败都折叠为 ("", false)。
func (m *multiaddr) PeerID() (string, bool) {
	tuples, err := bytesToTuples(m.bytes)
	if err != nil {
		return "", false
	}

	var value []byte
	for _, t := range tuples {
		if t.Code == P_P2P {
			value = t.Value
		}
	}
	if len(value) == 0 {
		return "", false
	}
	if validateMultihash(value) != nil {
		return "", false
	}
	return base58.Encode(value), true
}

// Path 提取路径值
//
// 取第一个路径协议片段的文本值。任何内部失败都折叠为 ("", false)。
func (m *multiaddr) Path() (string, bool) {
	tuples, err := bytesToTuples(m.bytes)
	if err != nil {
		return "", false
	}

	for _, t := range tuples {
		proto := ProtocolWithCode(t.Code)
		if !proto.Path {
			continue
		}
		s, err := proto.Transcoder.BytesToString(t.Value)
		if err != nil || s == "" {
			return "", false
		}
		return s, true
	}
	return "", false
}

// IsThinWaist 判断是否为 thin-waist 地址
func (m *multiaddr) IsThinWaist() bool {
	tuples, err := bytesToTuples(m.bytes)
	if err != nil || len(tuples) != 2 {
		return false
	}
	if tuples[0].Code != P_IP4 && tuples[0].Code != P_IP6 {
		return false
	}
	return tuples[1].Code == P_TCP || tuples[1].Code == P_UDP
}

// MarshalBinary 实现 encoding.BinaryMarshaler
func (m *multiaddr) MarshalBinary() ([]byte, error) {
	return m.Bytes(), nil
}

// UnmarshalBinary 实现 encoding.BinaryUnmarshaler
func (m *multiaddr) UnmarshalBinary(data []byte) error {
	ma, err := NewMultiaddrBytes(data)
	if err != nil {
		return err
	}
	*m = *(ma.(*multiaddr))
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (m *multiaddr) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (m *multiaddr) UnmarshalText(data []byte) error {
	ma, err := NewMultiaddr(string(data))
	if err != nil {
		return err
	}
	*m = *(ma.(*multiaddr))
	return nil
}

// MarshalJSON 实现 json.Marshaler
func (m *multiaddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 实现 json.Unmarshaler
func (m *multiaddr) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	ma, err := NewMultiaddr(s)
	if err != nil {
		return err
	}
	*m = *(ma.(*multiaddr))
	return nil
}
