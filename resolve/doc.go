// Package resolve 提供多地址中域名片段的解析
//
// 核心编解码器把 dns/dns4/dns6/dnsaddr 等可解析协议当作普通片段
// 处理；把名称变成具体地址的查询工作由本包完成。
//
// # 注册表
//
// 解析器按协议名称注册在 Registry 中，作为显式传递的能力，
// 而不是隐藏的全局状态：
//
//	reg := resolve.NewRegistry()
//	dns := resolve.NewDNSResolver(resolve.DefaultConfig())
//	dns.Attach(reg)
//
//	ma, _ := multiaddr.NewMultiaddr("/dnsaddr/bootstrap.example.com")
//	addrs, err := reg.Resolve(ctx, ma)
//
// 不含可解析协议的地址原样返回；含可解析协议但未注册解析器时
// 返回 ErrNoResolver。
//
// # dnsaddr
//
// dnsaddr 解析查询 `_dnsaddr.<domain>` 的 TXT 记录，记录格式为
// `dnsaddr=/ip4/.../tcp/.../p2p/...`，支持嵌套 `/dnsaddr/` 记录的
// 有限深度递归。记录按 TTL 缓存。
//
// # 超时与取消
//
// Resolve 是核心唯一的异步挂起点。取消与整体超时通过 ctx 控制，
// 单次查询超时由 Config.Timeout 控制；本包不做内部重试。
package resolve
