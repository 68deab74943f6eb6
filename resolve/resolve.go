package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/dep2p/go-multiaddr"
)

// ResolveFunc 按协议解析多地址
//
// 输入一个包含可解析协议的多地址，输出解析后的具体地址列表。
// 这是核心唯一的异步挂起点：取消与超时通过 ctx 传入，
// 核心不做内部重试。
type ResolveFunc func(ctx context.Context, m multiaddr.Multiaddr) ([]multiaddr.Multiaddr, error)

// Registry 解析器注册表
//
// 按协议名称注册 ResolveFunc。注册通常在进程初始化阶段完成；
// 注册表本身使用读写锁，支持并发注册与查询。
type Registry struct {
	mu  sync.RWMutex
	fns map[string]ResolveFunc
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]ResolveFunc),
	}
}

// Set 注册协议的解析器（覆盖同名旧值）
func (r *Registry) Set(protoName string, fn ResolveFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[protoName] = fn
}

// Get 获取协议的解析器
func (r *Registry) Get(protoName string) (ResolveFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[protoName]
	return fn, ok
}

// Resolve 解析多地址
//
// 找到地址中第一个可解析协议并调用对应的解析器。
// 地址不含可解析协议时原样返回（单元素列表）；
// 含可解析协议但未注册解析器时返回 ErrNoResolver。
func (r *Registry) Resolve(ctx context.Context, m multiaddr.Multiaddr) ([]multiaddr.Multiaddr, error) {
	if m == nil {
		return nil, ErrNilMultiaddr
	}

	var name string
	for _, p := range m.Protocols() {
		if p.Resolvable {
			name = p.Name
			break
		}
	}

	if name == "" {
		// 无需解析
		return []multiaddr.Multiaddr{m}, nil
	}

	fn, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoResolver, name)
	}

	return fn(ctx, m)
}
