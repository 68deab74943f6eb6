package multiaddr

import (
	"bytes"
	"fmt"
)

// Tuple 多地址片段的二进制视图：(协议代码, 值字节)
// 无值协议的 Value 为 nil
type Tuple struct {
	Code  int
	Value []byte
}

// StringTuple 多地址片段的文本视图：(协议代码, 值字符串)
type StringTuple struct {
	Code  int
	Value string
}

// bytesToTuples 将二进制多地址拆解为片段列表
func bytesToTuples(b []byte) ([]Tuple, error) {
	var tuples []Tuple

	for len(b) > 0 {
		code, n, err := readVarintCode(b)
		if err != nil {
			return nil, fmt.Errorf("failed to read protocol code: %w", err)
		}
		b = b[n:]

		proto := ProtocolWithCode(code)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: code %d", ErrUnknownProtocol, code)
		}

		if proto.Size == 0 {
			tuples = append(tuples, Tuple{Code: code})
			continue
		}

		prefixLen, dataLen, err := sizeForAddr(proto, b)
		if err != nil {
			return nil, fmt.Errorf("failed to size value for protocol %s: %w", proto.Name, err)
		}

		// 复制值字节，避免与原缓冲区共享
		value := make([]byte, dataLen)
		copy(value, b[prefixLen:prefixLen+dataLen])
		b = b[prefixLen+dataLen:]

		tuples = append(tuples, Tuple{Code: code, Value: value})
	}

	return tuples, nil
}

// tuplesToBytes 将片段列表编码为二进制多地址
//
// 重新验证每个片段的值宽度是否与协议描述相符。
func tuplesToBytes(tuples []Tuple) ([]byte, error) {
	var buf bytes.Buffer

	for _, t := range tuples {
		proto := ProtocolWithCode(t.Code)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: code %d", ErrUnknownProtocol, t.Code)
		}

		buf.Write(proto.VCode)

		switch {
		case proto.Size == 0:
			if len(t.Value) != 0 {
				return nil, fmt.Errorf("%w: protocol %s carries no value, got %d bytes",
					ErrValueOutOfRange, proto.Name, len(t.Value))
			}

		case proto.Size == LengthPrefixedVarSize:
			if err := proto.Transcoder.ValidateBytes(t.Value); err != nil {
				return nil, fmt.Errorf("invalid data for protocol %s: %w", proto.Name, err)
			}
			buf.Write(uvarintEncode(uint64(len(t.Value))))
			buf.Write(t.Value)

		default:
			if len(t.Value) != proto.Size/8 {
				return nil, fmt.Errorf("%w: protocol %s expects %d bytes, got %d",
					ErrValueOutOfRange, proto.Name, proto.Size/8, len(t.Value))
			}
			if err := proto.Transcoder.ValidateBytes(t.Value); err != nil {
				return nil, fmt.Errorf("invalid data for protocol %s: %w", proto.Name, err)
			}
			buf.Write(t.Value)
		}
	}

	return buf.Bytes(), nil
}

// tuplesToStringTuples 将二进制片段转换为文本片段
func tuplesToStringTuples(tuples []Tuple) ([]StringTuple, error) {
	out := make([]StringTuple, 0, len(tuples))

	for _, t := range tuples {
		proto := ProtocolWithCode(t.Code)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: code %d", ErrUnknownProtocol, t.Code)
		}

		if proto.Size == 0 {
			out = append(out, StringTuple{Code: t.Code})
			continue
		}

		s, err := proto.Transcoder.BytesToString(t.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to convert bytes for protocol %s: %w", proto.Name, err)
		}
		out = append(out, StringTuple{Code: t.Code, Value: s})
	}

	return out, nil
}

// stringTuplesToTuples 将文本片段转换为二进制片段
func stringTuplesToTuples(tuples []StringTuple) ([]Tuple, error) {
	out := make([]Tuple, 0, len(tuples))

	for _, t := range tuples {
		proto := ProtocolWithCode(t.Code)
		if proto.Code == 0 {
			return nil, fmt.Errorf("%w: code %d", ErrUnknownProtocol, t.Code)
		}

		if proto.Size == 0 {
			out = append(out, Tuple{Code: t.Code})
			continue
		}

		b, err := proto.Transcoder.StringToBytes(t.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to convert value for protocol %s: %w", proto.Name, err)
		}
		out = append(out, Tuple{Code: t.Code, Value: b})
	}

	return out, nil
}

// FromTuples 从二进制片段列表创建多地址
func FromTuples(tuples []Tuple) (Multiaddr, error) {
	b, err := tuplesToBytes(tuples)
	if err != nil {
		return nil, err
	}
	// tuplesToBytes 已验证
	return &multiaddr{bytes: b}, nil
}

// FromStringTuples 从文本片段列表创建多地址
func FromStringTuples(tuples []StringTuple) (Multiaddr, error) {
	ts, err := stringTuplesToTuples(tuples)
	if err != nil {
		return nil, err
	}
	return FromTuples(ts)
}
