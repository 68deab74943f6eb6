package multiaddr

import (
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
)

// Transcoder 接口定义了协议数据的编解码方法
type Transcoder interface {
	// StringToBytes 将字符串值转换为字节
	StringToBytes(string) ([]byte, error)

	// BytesToString 将字节转换为字符串值
	BytesToString([]byte) (string, error)

	// ValidateBytes 验证字节数据是否有效
	ValidateBytes([]byte) error
}

// NewTranscoderFromFunctions 从函数创建 Transcoder
func NewTranscoderFromFunctions(
	s2b func(string) ([]byte, error),
	b2s func([]byte) (string, error),
	val func([]byte) error,
) Transcoder {
	return &transcoderWrapper{s2b, b2s, val}
}

type transcoderWrapper struct {
	stringToBytes func(string) ([]byte, error)
	bytesToString func([]byte) (string, error)
	validateBytes func([]byte) error
}

func (t *transcoderWrapper) StringToBytes(s string) ([]byte, error) {
	return t.stringToBytes(s)
}

func (t *transcoderWrapper) BytesToString(b []byte) (string, error) {
	return t.bytesToString(b)
}

func (t *transcoderWrapper) ValidateBytes(b []byte) error {
	if t.validateBytes == nil {
		return nil
	}
	return t.validateBytes(b)
}

// IP4 Transcoder
var TranscoderIP4 = NewTranscoderFromFunctions(ip4StringToBytes, ip4BytesToString, nil)

func ip4StringToBytes(s string) ([]byte, error) {
	ip := net.ParseIP(s).To4()
	if ip == nil {
		return nil, fmt.Errorf("%w: failed to parse ip4 addr: %s", ErrInvalidValue, s)
	}
	return ip, nil
}

func ip4BytesToString(b []byte) (string, error) {
	if len(b) != 4 {
		return "", fmt.Errorf("%w: invalid ip4 length: %d", ErrInvalidValue, len(b))
	}
	return net.IP(b).String(), nil
}

// IP6 Transcoder
var TranscoderIP6 = NewTranscoderFromFunctions(ip6StringToBytes, ip6BytesToString, nil)

func ip6StringToBytes(s string) ([]byte, error) {
	ip := net.ParseIP(s).To16()
	if ip == nil {
		return nil, fmt.Errorf("%w: failed to parse ip6 addr: %s", ErrInvalidValue, s)
	}
	return ip, nil
}

func ip6BytesToString(b []byte) (string, error) {
	if len(b) != 16 {
		return "", fmt.Errorf("%w: invalid ip6 length: %d", ErrInvalidValue, len(b))
	}
	ip := net.IP(b)
	// 处理 IPv4-mapped IPv6 地址
	if ip4 := ip.To4(); ip4 != nil {
		return "::ffff:" + ip4.String(), nil
	}
	return ip.String(), nil
}

// IP6Zone Transcoder
var TranscoderIP6Zone = NewTranscoderFromFunctions(ip6ZoneStringToBytes, ip6ZoneBytesToString, ip6ZoneValidateBytes)

func ip6ZoneStringToBytes(s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty ip6zone", ErrInvalidValue)
	}
	if strings.Contains(s, "/") {
		return nil, fmt.Errorf("%w: IPv6 zone ID contains '/': %s", ErrInvalidValue, s)
	}
	return []byte(s), nil
}

func ip6ZoneBytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty ip6zone", ErrInvalidValue)
	}
	return string(b), nil
}

func ip6ZoneValidateBytes(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty ip6zone", ErrInvalidValue)
	}
	// 不支持 '/' 因为会破坏 multiaddr 解析
	if strings.Contains(string(b), "/") {
		return fmt.Errorf("%w: IPv6 zone ID contains '/': %s", ErrInvalidValue, string(b))
	}
	return nil
}

// IPCIDR Transcoder
var TranscoderIPCIDR = NewTranscoderFromFunctions(ipCIDRStringToBytes, ipCIDRBytesToString, nil)

func ipCIDRStringToBytes(s string) ([]byte, error) {
	ipMask, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse ipcidr %q: %v", ErrValueOutOfRange, s, err)
	}
	return []byte{byte(ipMask)}, nil
}

func ipCIDRBytesToString(b []byte) (string, error) {
	if len(b) != 1 {
		return "", fmt.Errorf("%w: invalid ipcidr length: %d", ErrInvalidValue, len(b))
	}
	return strconv.Itoa(int(b[0])), nil
}

// Port Transcoder (TCP/UDP/SCTP/DCCP)
var TranscoderPort = NewTranscoderFromFunctions(portStringToBytes, portBytesToString, nil)

func portStringToBytes(s string) ([]byte, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse port %q: %v", ErrValueOutOfRange, s, err)
	}
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(port))
	return b, nil
}

func portBytesToString(b []byte) (string, error) {
	if len(b) != 2 {
		return "", fmt.Errorf("%w: invalid port length: %d", ErrInvalidValue, len(b))
	}
	port := binary.BigEndian.Uint16(b)
	return strconv.Itoa(int(port)), nil
}

// DNS Transcoder (DNS/DNS4/DNS6/DNSADDR)
var TranscoderDNS = NewTranscoderFromFunctions(dnsStringToBytes, dnsBytesToString, dnsValidateBytes)

func dnsStringToBytes(s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty DNS name", ErrInvalidValue)
	}
	if strings.Contains(s, "/") {
		return nil, fmt.Errorf("%w: DNS name contains '/': %s", ErrInvalidValue, s)
	}
	return []byte(s), nil
}

func dnsBytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty DNS name", ErrInvalidValue)
	}
	return string(b), nil
}

func dnsValidateBytes(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty DNS name", ErrInvalidValue)
	}
	if strings.Contains(string(b), "/") {
		return fmt.Errorf("%w: DNS name contains '/': %s", ErrInvalidValue, string(b))
	}
	return nil
}

// P2P Transcoder (PeerID)
//
// 文本形式支持两种拼写：
//   - base58btc 编码的 multihash（"Qm..." / "1..."）
//   - base32 编码的 CIDv1（"b..."），从中提取内嵌的 multihash
//
// 线上形式始终是裸 multihash 字节（不含多基/CID 包装）
var TranscoderP2P = NewTranscoderFromFunctions(p2pStringToBytes, p2pBytesToString, p2pValidateBytes)

func p2pStringToBytes(s string) ([]byte, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty peer ID", ErrInvalidEncoding)
	}

	var mh []byte
	switch {
	case s[0] == 'Q' || s[0] == '1':
		// base58btc multihash
		m, err := base58.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode base58 peer ID: %v", ErrInvalidEncoding, err)
		}
		mh = m
	case s[0] == 'b':
		// base32 CIDv1
		m, err := cidToMultihash(s)
		if err != nil {
			return nil, err
		}
		mh = m
	default:
		return nil, fmt.Errorf("%w: unsupported peer ID multibase prefix %q", ErrInvalidEncoding, s[0])
	}

	if err := validateMultihash(mh); err != nil {
		return nil, err
	}
	return mh, nil
}

func p2pBytesToString(b []byte) (string, error) {
	if err := validateMultihash(b); err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

func p2pValidateBytes(b []byte) error {
	return validateMultihash(b)
}

// validateMultihash 验证 multihash 帧格式：
// code varint + length varint + 恰好 length 字节的摘要
func validateMultihash(b []byte) error {
	_, n, err := uvarintDecode(b)
	if err != nil {
		return fmt.Errorf("%w: bad multihash code: %v", ErrInvalidEncoding, err)
	}
	length, m, err := uvarintDecode(b[n:])
	if err != nil {
		return fmt.Errorf("%w: bad multihash length: %v", ErrInvalidEncoding, err)
	}
	if uint64(len(b)-n-m) != length {
		return fmt.Errorf("%w: multihash digest length mismatch: declared %d, have %d",
			ErrInvalidEncoding, length, len(b)-n-m)
	}
	return nil
}

// base32 小写无填充（CIDv1 文本形式使用 RFC 4648 小写字母表）
var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// cidToMultihash 从 base32 CIDv1 文本中提取 multihash 字节
func cidToMultihash(s string) ([]byte, error) {
	raw, err := base32NoPad.DecodeString(strings.ToUpper(s[1:]))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base32 CID: %v", ErrInvalidEncoding, err)
	}

	version, n, err := uvarintDecode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: bad CID version: %v", ErrInvalidEncoding, err)
	}
	if version != 1 {
		return nil, fmt.Errorf("%w: unsupported CID version %d", ErrInvalidEncoding, version)
	}

	// 内容编码代码，跳过
	_, m, err := uvarintDecode(raw[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: bad CID codec: %v", ErrInvalidEncoding, err)
	}

	mh := raw[n+m:]
	if len(mh) == 0 {
		return nil, fmt.Errorf("%w: CID carries no multihash", ErrInvalidEncoding)
	}
	return mh, nil
}

// Unix Transcoder
var TranscoderUnix = NewTranscoderFromFunctions(unixStringToBytes, unixBytesToString, unixValidateBytes)

func unixStringToBytes(s string) ([]byte, error) {
	if len(s) == 0 || s == "/" {
		return nil, fmt.Errorf("%w: empty unix path", ErrInvalidValue)
	}
	// 相对路径无法在字符串形式中往返
	if s[0] != '/' {
		return nil, fmt.Errorf("%w: unix path must be absolute: %s", ErrInvalidValue, s)
	}
	return []byte(s), nil
}

func unixBytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty unix path", ErrInvalidValue)
	}
	return string(b), nil
}

func unixValidateBytes(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty unix path", ErrInvalidValue)
	}
	if b[0] != '/' {
		return fmt.Errorf("%w: unix path must be absolute", ErrInvalidValue)
	}
	return nil
}

// Onion Transcoder
var TranscoderOnion = NewTranscoderFromFunctions(onionStringToBytes, onionBytesToString, nil)

func onionStringToBytes(s string) ([]byte, error) {
	addr := strings.Split(s, ":")
	if len(addr) != 2 {
		return nil, fmt.Errorf("%w: invalid onion address: %s", ErrInvalidValue, s)
	}

	// Onion 地址是 base32 编码
	onionHost, err := base32.StdEncoding.DecodeString(strings.ToUpper(addr[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode onion address: %v", ErrInvalidEncoding, err)
	}
	if len(onionHost) != 10 {
		return nil, fmt.Errorf("%w: invalid onion address length: %d", ErrInvalidValue, len(onionHost))
	}

	port, err := strconv.ParseUint(addr[1], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse onion port: %v", ErrValueOutOfRange, err)
	}
	if port == 0 {
		return nil, fmt.Errorf("%w: onion port must be > 0", ErrValueOutOfRange)
	}

	// 组装：10字节地址 + 2字节端口
	result := make([]byte, 12)
	copy(result[:10], onionHost)
	binary.BigEndian.PutUint16(result[10:], uint16(port))

	return result, nil
}

func onionBytesToString(b []byte) (string, error) {
	if len(b) != 12 {
		return "", fmt.Errorf("%w: invalid onion length: %d", ErrInvalidValue, len(b))
	}

	addr := strings.ToLower(base32.StdEncoding.EncodeToString(b[:10]))
	port := binary.BigEndian.Uint16(b[10:])

	return fmt.Sprintf("%s:%d", addr, port), nil
}

// Onion3 Transcoder
var TranscoderOnion3 = NewTranscoderFromFunctions(onion3StringToBytes, onion3BytesToString, nil)

func onion3StringToBytes(s string) ([]byte, error) {
	addr := strings.Split(s, ":")
	if len(addr) != 2 {
		return nil, fmt.Errorf("%w: invalid onion3 address: %s", ErrInvalidValue, s)
	}

	// Onion3 地址是 base32 编码（允许 .onion 后缀）
	onionHost := strings.TrimSuffix(addr[0], ".onion")
	hostBytes, err := base32.StdEncoding.DecodeString(strings.ToUpper(onionHost))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode onion3 address: %v", ErrInvalidEncoding, err)
	}
	if len(hostBytes) != 35 {
		return nil, fmt.Errorf("%w: invalid onion3 address length: %d", ErrInvalidValue, len(hostBytes))
	}

	port, err := strconv.ParseUint(addr[1], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse onion3 port: %v", ErrValueOutOfRange, err)
	}
	if port == 0 {
		return nil, fmt.Errorf("%w: onion3 port must be > 0", ErrValueOutOfRange)
	}

	// 组装：35字节地址 + 2字节端口
	result := make([]byte, 37)
	copy(result[:35], hostBytes)
	binary.BigEndian.PutUint16(result[35:], uint16(port))

	return result, nil
}

func onion3BytesToString(b []byte) (string, error) {
	if len(b) != 37 {
		return "", fmt.Errorf("%w: invalid onion3 length: %d", ErrInvalidValue, len(b))
	}

	addr := strings.ToLower(base32.StdEncoding.EncodeToString(b[:35]))
	port := binary.BigEndian.Uint16(b[35:])

	return fmt.Sprintf("%s:%d", addr, port), nil
}

// Garlic64 Transcoder
var TranscoderGarlic64 = NewTranscoderFromFunctions(garlic64StringToBytes, garlic64BytesToString, garlicValidateBytes)

func garlic64StringToBytes(s string) ([]byte, error) {
	// Garlic64 是 base32 编码（I2P 地址）
	b, err := base32.StdEncoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode garlic64: %v", ErrInvalidEncoding, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty garlic64", ErrInvalidValue)
	}
	return b, nil
}

func garlic64BytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty garlic64", ErrInvalidValue)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}

// Garlic32 Transcoder
var TranscoderGarlic32 = NewTranscoderFromFunctions(garlic32StringToBytes, garlic32BytesToString, garlicValidateBytes)

func garlic32StringToBytes(s string) ([]byte, error) {
	// Garlic32 是 base32 编码（I2P 短地址）
	b, err := base32.StdEncoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode garlic32: %v", ErrInvalidEncoding, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty garlic32", ErrInvalidValue)
	}
	return b, nil
}

func garlic32BytesToString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty garlic32", ErrInvalidValue)
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b)), nil
}

func garlicValidateBytes(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("%w: empty garlic value", ErrInvalidValue)
	}
	return nil
}
