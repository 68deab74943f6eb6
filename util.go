package multiaddr

import "fmt"

// Split 分离传输地址和 peer ID
//
// 输入：/ip4/1.2.3.4/tcp/4001/p2p/12D3KooW...
// 输出：/ip4/1.2.3.4/tcp/4001, 12D3KooW...
func Split(m Multiaddr) (transport Multiaddr, peerID string) {
	if m == nil {
		return nil, ""
	}

	id, ok := m.PeerID()
	if !ok {
		return m, ""
	}

	return m.DecapsulateCode(P_P2P), id
}

// Join 合并传输地址和 peer ID
func Join(transport Multiaddr, peerID string) Multiaddr {
	if peerID == "" {
		return transport
	}

	p2pAddr, err := NewMultiaddr(fmt.Sprintf("/p2p/%s", peerID))
	if err != nil {
		// peer ID 无法解析时只返回传输地址
		return transport
	}

	if transport == nil {
		return p2pAddr
	}

	return transport.Encapsulate(p2pAddr)
}

// FilterAddrs 过滤多地址列表
func FilterAddrs(addrs []Multiaddr, filter func(Multiaddr) bool) []Multiaddr {
	result := make([]Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		if filter(addr) {
			result = append(result, addr)
		}
	}
	return result
}

// UniqueAddrs 去重多地址列表（保持顺序，按字节比较）
func UniqueAddrs(addrs []Multiaddr) []Multiaddr {
	seen := make(map[string]bool, len(addrs))
	result := make([]Multiaddr, 0, len(addrs))

	for _, addr := range addrs {
		key := string(addr.Bytes())
		if !seen[key] {
			seen[key] = true
			result = append(result, addr)
		}
	}

	return result
}

// HasProtocol 检查多地址是否包含指定协议
func HasProtocol(m Multiaddr, code int) bool {
	if m == nil {
		return false
	}

	for _, c := range m.ProtocolCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// Component 表示多地址的单个片段
type Component struct {
	protocol Protocol
	value    string
}

// Protocol 返回片段的协议
func (c Component) Protocol() Protocol {
	return c.protocol
}

// Value 返回片段的值
func (c Component) Value() string {
	return c.value
}

// SplitFirst 分离多地址的第一个片段和剩余部分
//
// 空地址返回（零值 Component, nil）。
func SplitFirst(m Multiaddr) (Component, Multiaddr) {
	if m == nil {
		return Component{}, nil
	}

	tuples, err := bytesToTuples(m.Bytes())
	if err != nil || len(tuples) == 0 {
		return Component{}, nil
	}

	proto := ProtocolWithCode(tuples[0].Code)
	var value string
	if proto.Size != 0 {
		value, err = proto.Transcoder.BytesToString(tuples[0].Value)
		if err != nil {
			return Component{}, nil
		}
	}

	comp := Component{protocol: proto, value: value}

	if len(tuples) == 1 {
		return comp, nil
	}

	rest, err := FromTuples(tuples[1:])
	if err != nil {
		return comp, nil
	}
	return comp, rest
}

// ForEach 遍历多地址中的每个片段
// 如果回调函数返回 false，则停止遍历
func ForEach(m Multiaddr, fn func(Component) bool) {
	current := m
	for current != nil {
		comp, rest := SplitFirst(current)
		if comp.protocol.Code == 0 {
			break
		}

		if !fn(comp) {
			break
		}

		current = rest
	}
}
