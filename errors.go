package multiaddr

import "errors"

// 预定义错误
var (
	// ErrInvalidMultiaddr 无效的 multiaddr（文本语法或二进制结构错误）
	ErrInvalidMultiaddr = errors.New("multiaddr: invalid multiaddr")

	// ErrUnknownProtocol 协议代码或名称未注册
	ErrUnknownProtocol = errors.New("multiaddr: unknown protocol")

	// ErrTruncated 缓冲区在片段中途结束
	ErrTruncated = errors.New("multiaddr: truncated address")

	// ErrVarint varint 编码损坏（截断或溢出）
	ErrVarint = errors.New("multiaddr: malformed varint")

	// ErrValueOutOfRange 数值超出协议允许范围，或元组值宽度与协议不符
	ErrValueOutOfRange = errors.New("multiaddr: value out of range")

	// ErrInvalidValue 地址值语法无效（IP 格式等）
	ErrInvalidValue = errors.New("multiaddr: invalid address value")

	// ErrInvalidEncoding 基编码值（peer ID / CID 等）格式无效
	ErrInvalidEncoding = errors.New("multiaddr: invalid value encoding")

	// ErrNotFound 解封装时未找到子地址
	ErrNotFound = errors.New("multiaddr: sub-address not found")

	// ErrProtocolNotFound 地址中不包含指定协议
	ErrProtocolNotFound = errors.New("multiaddr: protocol not found in multiaddr")

	// ErrUnsupportedShape 地址形状不满足操作要求（片段数量或类型错误）
	ErrUnsupportedShape = errors.New("multiaddr: unsupported address shape")
)
