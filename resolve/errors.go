package resolve

import "errors"

// 预定义错误
var (
	// ErrNoResolver 可解析协议没有注册对应的解析器
	ErrNoResolver = errors.New("resolve: no resolver registered for protocol")

	// ErrNilMultiaddr 输入地址为 nil
	ErrNilMultiaddr = errors.New("resolve: nil multiaddr")

	// ErrInvalidDNSAddr 无效的 dnsaddr TXT 记录
	ErrInvalidDNSAddr = errors.New("resolve: invalid dnsaddr record")

	// ErrMaxDepthExceeded 超过最大递归深度
	ErrMaxDepthExceeded = errors.New("resolve: max recursion depth exceeded")

	// ErrNoRecordsFound 未找到 DNS 记录
	ErrNoRecordsFound = errors.New("resolve: no DNS records found")

	// ErrEmptyDomain 空域名
	ErrEmptyDomain = errors.New("resolve: empty domain")
)
