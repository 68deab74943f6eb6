// Package multiaddr 提供多地址（Multiaddr）的实现
//
// Multiaddr 是一种自描述、可组合的网络地址格式：由有序的
// (协议, 值) 片段序列组成，可在斜杠分隔的文本形式与紧凑的
// 二进制形式之间无损互转。
//
// # 基本用法
//
//	// 创建多地址
//	ma, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/tcp/4001")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 获取字符串表示
//	fmt.Println(ma.String()) // /ip4/127.0.0.1/tcp/4001
//
//	// 获取二进制表示
//	bytes := ma.Bytes()
//
//	// 封装另一个地址
//	p2p, _ := multiaddr.NewMultiaddr("/p2p/QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N")
//	full := ma.Encapsulate(p2p)
//
// # 地址格式
//
// 字符串格式：
//
//	/ip4/127.0.0.1/tcp/4001
//	/ip6/::1/tcp/8080
//	/ip4/192.168.1.1/udp/4001/quic-v1
//	/ip4/1.2.3.4/tcp/4001/p2p/QmYyQSo1c1Ym7orWxLYvCrM2EmxFTANf8wXmmE7DWjhx5N
//	/dns/example.com/tcp/443/wss
//
// 二进制格式（规范的持久化/传输表示）：
//
//	[varint:protocol_code][varint:length][data_bytes]...
//
// 定长协议省略 length 前缀，无值协议只有 protocol_code。
// 二进制缓冲区的末尾必须与最后一个片段的末尾重合。
//
// # 不可变性与并发
//
// 多地址构造后不可变；所有派生视图（字符串、协议列表、片段）
// 都从规范字节缓冲区按需计算。实例可在多个 goroutine 间安全共享，
// 无需加锁。
//
// # 片段视图
//
//	tuples := ma.Tuples()          // [(code, value bytes), ...]
//	sts := ma.StringTuples()       // [(code, value string), ...]
//	ma2, _ := multiaddr.FromTuples(tuples)
//
// # 与标准网络类型转换
//
//	na, err := ma.ToNodeAddress()  // {Family: 4, Address: "127.0.0.1", Port: 4001}
//	ma2, _ := multiaddr.FromNodeAddress(na, "tcp")
//	tcpAddr, err := ma.ToTCPAddr()
//
// # 域名解析
//
// dns/dns4/dns6/dnsaddr 协议的值需要外部解析，见 resolve 子包。
//
// # 与 multiformats 对齐
//
// 所有协议代码与 multiformats/multicodec 完全对齐：
// https://github.com/multiformats/multicodec/blob/master/table.csv
package multiaddr
