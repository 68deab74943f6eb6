package multiaddr

import (
	"fmt"
	"net"
	"strconv"
)

// NodeAddress 普通网络地址记录
//
// 与 thin-waist 双片段地址（网络层 + 传输层）互相转换。
type NodeAddress struct {
	// Family IP 版本：4 或 6
	Family int

	// Address IP 字符串形式
	Address string

	// Port 传输层端口
	Port int
}

// ToNodeAddress 将多地址转换为 NodeAddress
//
// 要求恰好的 thin-waist 形状（ip4/ip6 + tcp/udp），否则返回
// ErrUnsupportedShape。
func (m *multiaddr) ToNodeAddress() (*NodeAddress, error) {
	if !m.IsThinWaist() {
		return nil, fmt.Errorf("%w: expected network + transport segments, got %s",
			ErrUnsupportedShape, m.String())
	}

	tuples := m.Tuples()

	family := 4
	if tuples[0].Code == P_IP6 {
		family = 6
	}

	ipStr, err := ProtocolWithCode(tuples[0].Code).Transcoder.BytesToString(tuples[0].Value)
	if err != nil {
		return nil, err
	}

	portStr, err := ProtocolWithCode(tuples[1].Code).Transcoder.BytesToString(tuples[1].Value)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port %q", ErrInvalidValue, portStr)
	}

	return &NodeAddress{
		Family:  family,
		Address: ipStr,
		Port:    port,
	}, nil
}

// FromNodeAddress 从 NodeAddress 创建多地址
//
// 记录本身不携带传输协议，由 transport（"tcp" 或 "udp"）指定。
func FromNodeAddress(na NodeAddress, transport string) (Multiaddr, error) {
	if na.Family != 4 && na.Family != 6 {
		return nil, fmt.Errorf("%w: invalid family %d", ErrUnsupportedShape, na.Family)
	}
	if transport != "tcp" && transport != "udp" {
		return nil, fmt.Errorf("%w: invalid transport %q", ErrUnsupportedShape, transport)
	}

	s := fmt.Sprintf("/ip%d/%s/%s/%d", na.Family, na.Address, transport, na.Port)
	return NewMultiaddr(s)
}

// ToTCPAddr 将多地址转换为 *net.TCPAddr
func (m *multiaddr) ToTCPAddr() (*net.TCPAddr, error) {
	ip, err := m.ipValue()
	if err != nil {
		return nil, err
	}

	portStr, err := m.ValueForProtocol(P_TCP)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port %q", ErrInvalidValue, portStr)
	}

	return &net.TCPAddr{IP: ip, Port: port}, nil
}

// ToUDPAddr 将多地址转换为 *net.UDPAddr
func (m *multiaddr) ToUDPAddr() (*net.UDPAddr, error) {
	ip, err := m.ipValue()
	if err != nil {
		return nil, err
	}

	portStr, err := m.ValueForProtocol(P_UDP)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port %q", ErrInvalidValue, portStr)
	}

	return &net.UDPAddr{IP: ip, Port: port}, nil
}

// ipValue 提取地址中的 IP（先试 IPv4，再试 IPv6）
func (m *multiaddr) ipValue() (net.IP, error) {
	ipStr, err := m.ValueForProtocol(P_IP4)
	if err != nil {
		ipStr, err = m.ValueForProtocol(P_IP6)
		if err != nil {
			return nil, fmt.Errorf("%w: no IP segment", ErrUnsupportedShape)
		}
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil, fmt.Errorf("%w: invalid IP %q", ErrInvalidValue, ipStr)
	}
	return ip, nil
}

// FromTCPAddr 从 *net.TCPAddr 创建多地址
func FromTCPAddr(addr *net.TCPAddr) (Multiaddr, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: nil TCP address", ErrUnsupportedShape)
	}
	return fromIPPort(addr.IP, addr.Port, "tcp")
}

// FromUDPAddr 从 *net.UDPAddr 创建多地址
func FromUDPAddr(addr *net.UDPAddr) (Multiaddr, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: nil UDP address", ErrUnsupportedShape)
	}
	return fromIPPort(addr.IP, addr.Port, "udp")
}

// FromNetAddr 从 net.Addr 创建多地址
func FromNetAddr(addr net.Addr) (Multiaddr, error) {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return FromTCPAddr(a)
	case *net.UDPAddr:
		return FromUDPAddr(a)
	default:
		return nil, fmt.Errorf("%w: unsupported net.Addr type %T", ErrUnsupportedShape, addr)
	}
}

func fromIPPort(ip net.IP, port int, transport string) (Multiaddr, error) {
	family := 6
	if ip4 := ip.To4(); ip4 != nil {
		family = 4
		ip = ip4
	}
	return FromNodeAddress(NodeAddress{Family: family, Address: ip.String(), Port: port}, transport)
}
