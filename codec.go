package multiaddr

import (
	"bytes"
	"fmt"
	"strings"
)

// stringToBytes 将多地址字符串转换为二进制格式
//
// 空字符串（或仅由 '/' 组成的字符串）是合法的空地址，返回空缓冲区。
func stringToBytes(s string) ([]byte, error) {
	// 去除尾部斜杠（规范化）
	s = strings.TrimRight(s, "/")

	if len(s) == 0 {
		return nil, nil
	}

	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: must begin with '/': %s", ErrInvalidMultiaddr, s)
	}

	var buf bytes.Buffer

	// 跳过第一个空元素
	parts := strings.Split(s, "/")[1:]

	// 解析每个协议及其值
	for len(parts) > 0 {
		name := parts[0]
		proto := ProtocolWithName(name)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, name)
		}

		// 写入协议代码（varint）
		buf.Write(proto.VCode)
		parts = parts[1:]

		// 如果协议无数据，继续下一个
		if proto.Size == 0 {
			continue
		}

		// 协议需要值
		if len(parts) < 1 {
			return nil, fmt.Errorf("%w: protocol %s requires a value", ErrInvalidMultiaddr, name)
		}

		// 路径协议贪婪消费剩余所有部分
		if proto.Path {
			parts = []string{"/" + strings.Join(parts, "/")}
		}

		// 使用 transcoder 转换值
		valueBytes, err := proto.Transcoder.StringToBytes(parts[0])
		if err != nil {
			return nil, fmt.Errorf("failed to convert value for protocol %s: %w", name, err)
		}

		// 如果是变长协议，写入长度前缀
		if proto.Size == LengthPrefixedVarSize {
			buf.Write(uvarintEncode(uint64(len(valueBytes))))
		}

		buf.Write(valueBytes)
		parts = parts[1:]
	}

	return buf.Bytes(), nil
}

// bytesToString 将二进制格式的多地址转换为字符串
//
// 空缓冲区返回空字符串（不是 "/"）。
func bytesToString(b []byte) (string, error) {
	var sb strings.Builder

	for len(b) > 0 {
		// 读取协议代码
		code, n, err := readVarintCode(b)
		if err != nil {
			return "", fmt.Errorf("failed to read protocol code: %w", err)
		}
		b = b[n:]

		proto := ProtocolWithCode(code)
		if proto.Code == 0 {
			return "", fmt.Errorf("%w: code %d", ErrUnknownProtocol, code)
		}

		// 写入协议名称
		sb.WriteString("/")
		sb.WriteString(proto.Name)

		// 如果协议无数据，继续
		if proto.Size == 0 {
			continue
		}

		// 确定数据大小
		prefixLen, dataLen, err := sizeForAddr(proto, b)
		if err != nil {
			return "", fmt.Errorf("failed to size value for protocol %s: %w", proto.Name, err)
		}

		valueBytes := b[prefixLen : prefixLen+dataLen]
		b = b[prefixLen+dataLen:]

		// 验证并转换为字符串
		if err := proto.Transcoder.ValidateBytes(valueBytes); err != nil {
			return "", fmt.Errorf("invalid data for protocol %s: %w", proto.Name, err)
		}

		valueStr, err := proto.Transcoder.BytesToString(valueBytes)
		if err != nil {
			return "", fmt.Errorf("failed to convert bytes for protocol %s: %w", proto.Name, err)
		}

		// 路径值自带前导 '/'，不再写入分隔符
		if proto.Path && strings.HasPrefix(valueStr, "/") {
			sb.WriteString(valueStr)
		} else {
			sb.WriteString("/")
			sb.WriteString(valueStr)
		}
	}

	return sb.String(), nil
}

// validateBytes 验证二进制多地址的格式
//
// 按片段遍历整个缓冲区，缓冲区末尾必须与最后一个片段的末尾重合。
func validateBytes(b []byte) error {
	for len(b) > 0 {
		// 读取协议代码
		code, n, err := readVarintCode(b)
		if err != nil {
			return fmt.Errorf("invalid protocol code: %w", err)
		}
		b = b[n:]

		proto := ProtocolWithCode(code)
		if proto.Code == 0 {
			return fmt.Errorf("%w: code %d", ErrUnknownProtocol, code)
		}

		if proto.Size == 0 {
			continue
		}

		prefixLen, dataLen, err := sizeForAddr(proto, b)
		if err != nil {
			return fmt.Errorf("failed to size value for protocol %s: %w", proto.Name, err)
		}

		if err := proto.Transcoder.ValidateBytes(b[prefixLen : prefixLen+dataLen]); err != nil {
			return fmt.Errorf("invalid data for protocol %s: %w", proto.Name, err)
		}

		b = b[prefixLen+dataLen:]
	}

	return nil
}

// sizeForAddr 计算协议数据部分的大小
//
// 返回：(length_prefix_bytes, data_bytes, error)
// 调用方通过 prefixLen+dataLen 同时跳过长度前缀和值。
// 前缀之后剩余字节不足时返回 ErrTruncated。
func sizeForAddr(proto Protocol, b []byte) (int, int, error) {
	switch {
	case proto.Size > 0:
		// 固定大小（位转字节）
		size := proto.Size / 8
		if len(b) < size {
			return 0, 0, fmt.Errorf("%w: protocol %s needs %d bytes, have %d",
				ErrTruncated, proto.Name, size, len(b))
		}
		return 0, size, nil

	case proto.Size == 0:
		return 0, 0, nil

	default:
		// 变长：读取长度前缀
		length, n, err := uvarintDecode(b)
		if err != nil {
			return 0, 0, err
		}
		if length > uint64(len(b)-n) {
			return 0, 0, fmt.Errorf("%w: protocol %s declares %d bytes, have %d",
				ErrTruncated, proto.Name, length, len(b)-n)
		}
		return n, int(length), nil
	}
}
