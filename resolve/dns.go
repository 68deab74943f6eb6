package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"

	"github.com/dep2p/go-multiaddr"
)

const (
	// dnsaddrPrefix dnsaddr TXT 记录前缀
	dnsaddrPrefix = "dnsaddr="

	// dnsaddrDomainPrefix dnsaddr 查询域名前缀
	dnsaddrDomainPrefix = "_dnsaddr."
)

// Backend DNS 查询后端
//
// 默认实现是 *net.Resolver；测试中可替换为确定性桩。
type Backend interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// Config DNS 解析器配置
type Config struct {
	// Timeout 单次 DNS 查询超时
	Timeout time.Duration

	// MaxDepth dnsaddr 最大递归深度
	MaxDepth int

	// CustomServer 自定义 DNS 服务器地址（格式: "ip:port"，空用系统默认）
	CustomServer string

	// CacheTTL TXT 记录缓存 TTL
	CacheTTL time.Duration

	// CacheSize TXT 记录缓存条目上限
	CacheSize int
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Timeout:   10 * time.Second,
		MaxDepth:  3,
		CacheTTL:  5 * time.Minute,
		CacheSize: 128,
	}
}

// txtCacheEntry TXT 记录缓存条目
type txtCacheEntry struct {
	records   []string
	expiresAt time.Time
}

// DNSResolver dns/dns4/dns6/dnsaddr 协议的解析器
//
// dns* 协议通过 A/AAAA 查询替换首片段；dnsaddr 协议查询
// `_dnsaddr.<domain>` 的 TXT 记录并支持嵌套递归。
type DNSResolver struct {
	backend Backend
	clock   clock.Clock
	logger  *slog.Logger
	config  Config

	cache *lru.Cache[string, txtCacheEntry]
}

// Option DNSResolver 选项
type Option func(*DNSResolver)

// WithBackend 替换 DNS 查询后端
func WithBackend(b Backend) Option {
	return func(r *DNSResolver) { r.backend = b }
}

// WithClock 替换时钟（测试用）
func WithClock(c clock.Clock) Option {
	return func(r *DNSResolver) { r.clock = c }
}

// WithLogger 替换 logger
func WithLogger(l *slog.Logger) Option {
	return func(r *DNSResolver) { r.logger = l }
}

// NewDNSResolver 创建 DNS 解析器
//
// 零值配置字段回填为 DefaultConfig 的对应值，
// 零值 Config 因而等价于默认配置。
func NewDNSResolver(config Config, opts ...Option) *DNSResolver {
	def := DefaultConfig()
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = def.MaxDepth
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = def.CacheTTL
	}
	if config.CacheSize <= 0 {
		config.CacheSize = def.CacheSize
	}

	r := &DNSResolver{
		clock:  clock.New(),
		logger: slog.Default(),
		config: config,
	}

	// 配置 DNS 后端
	if config.CustomServer != "" {
		r.backend = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				d := net.Dialer{Timeout: config.Timeout}
				return d.DialContext(ctx, network, config.CustomServer)
			},
		}
	} else {
		r.backend = net.DefaultResolver
	}

	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.New[string, txtCacheEntry](config.CacheSize)
	if err != nil {
		// 只有 size <= 0 才失败，上面已兜底
		panic(err)
	}
	r.cache = cache

	return r
}

// Attach 将解析器注册到注册表（覆盖 dns/dns4/dns6/dnsaddr）
func (r *DNSResolver) Attach(reg *Registry) {
	for _, name := range []string{"dns", "dns4", "dns6", "dnsaddr"} {
		reg.Set(name, r.Resolve)
	}
}

// Resolve 解析多地址中的域名片段
//
// 签名满足 ResolveFunc，可直接注册到 Registry。
func (r *DNSResolver) Resolve(ctx context.Context, m multiaddr.Multiaddr) ([]multiaddr.Multiaddr, error) {
	if m == nil {
		return nil, ErrNilMultiaddr
	}
	return r.resolve(ctx, m, r.config.MaxDepth)
}

func (r *DNSResolver) resolve(ctx context.Context, m multiaddr.Multiaddr, depth int) ([]multiaddr.Multiaddr, error) {
	first, rest := multiaddr.SplitFirst(m)

	switch first.Protocol().Code {
	case multiaddr.P_DNS, multiaddr.P_DNS4, multiaddr.P_DNS6:
		return r.resolveIP(ctx, first.Protocol().Code, first.Value(), rest)
	case multiaddr.P_DNSADDR:
		if depth < 0 {
			return nil, ErrMaxDepthExceeded
		}
		return r.resolveDNSAddr(ctx, first.Value(), rest, depth)
	default:
		// 首片段无需解析，原样返回
		return []multiaddr.Multiaddr{m}, nil
	}
}

// resolveIP 处理 dns/dns4/dns6：A/AAAA 查询替换首片段
func (r *DNSResolver) resolveIP(ctx context.Context, code int, host string, rest multiaddr.Multiaddr) ([]multiaddr.Multiaddr, error) {
	if host == "" {
		return nil, ErrEmptyDomain
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	ips, err := r.backend.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", host, err)
	}

	var out []multiaddr.Multiaddr
	for _, ip := range ips {
		v4 := ip.IP.To4()

		// 按协议过滤地址族
		if code == multiaddr.P_DNS4 && v4 == nil {
			continue
		}
		if code == multiaddr.P_DNS6 && v4 != nil {
			continue
		}

		var s string
		if v4 != nil {
			s = "/ip4/" + v4.String()
		} else if ip.Zone != "" {
			s = "/ip6zone/" + ip.Zone + "/ip6/" + ip.IP.String()
		} else {
			s = "/ip6/" + ip.IP.String()
		}

		ma, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			continue
		}
		if rest != nil {
			ma = ma.Encapsulate(rest)
		}
		out = append(out, ma)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecordsFound, host)
	}
	return multiaddr.UniqueAddrs(out), nil
}

// resolveDNSAddr 处理 dnsaddr：TXT 查询 + 嵌套递归
//
// rest 是 dnsaddr 片段之后的后缀（常见为 /p2p/<id>），
// 非空时只保留字符串形式以该后缀结尾的记录。
func (r *DNSResolver) resolveDNSAddr(ctx context.Context, domain string, rest multiaddr.Multiaddr, depth int) ([]multiaddr.Multiaddr, error) {
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	records, err := r.lookupTXT(ctx, normalizeDNSAddrDomain(domain))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecordsFound, domain)
	}

	var out []multiaddr.Multiaddr
	var errs error

	for _, record := range records {
		if !strings.HasPrefix(record, dnsaddrPrefix) {
			continue
		}

		addrStr := strings.TrimPrefix(record, dnsaddrPrefix)
		recAddr, err := multiaddr.NewMultiaddr(addrStr)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidDNSAddr, record, err))
			continue
		}

		if multiaddr.HasProtocol(recAddr, multiaddr.P_DNSADDR) {
			// 嵌套 dnsaddr，递归解析
			if depth <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrMaxDepthExceeded, record))
				continue
			}
			if rest != nil {
				recAddr = recAddr.Encapsulate(rest)
			}
			nested, err := r.resolve(ctx, recAddr, depth-1)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			out = append(out, nested...)
			continue
		}

		if rest != nil && !strings.HasSuffix(recAddr.String(), rest.String()) {
			continue
		}
		out = append(out, recAddr)
	}

	if len(out) == 0 && errs != nil {
		return nil, errs
	}
	return multiaddr.UniqueAddrs(out), nil
}

// lookupTXT 查询 TXT 记录，带 TTL 缓存
func (r *DNSResolver) lookupTXT(ctx context.Context, fqdn string) ([]string, error) {
	if entry, ok := r.cache.Get(fqdn); ok {
		if r.clock.Now().Before(entry.expiresAt) {
			r.logger.Debug("dnsaddr cache hit", "domain", fqdn)
			return entry.records, nil
		}
		r.cache.Remove(fqdn)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	r.logger.Debug("dnsaddr TXT lookup", "domain", fqdn)
	records, err := r.backend.LookupTXT(ctx, fqdn)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNoRecordsFound, fqdn)
		}
		return nil, fmt.Errorf("lookup TXT %s: %w", fqdn, err)
	}

	r.cache.Add(fqdn, txtCacheEntry{
		records:   records,
		expiresAt: r.clock.Now().Add(r.config.CacheTTL),
	})

	return records, nil
}

// ClearCache 清除 TXT 记录缓存
func (r *DNSResolver) ClearCache() {
	r.cache.Purge()
}

// normalizeDNSAddrDomain 规范化 dnsaddr 查询域名
func normalizeDNSAddrDomain(domain string) string {
	domain = strings.TrimSuffix(domain, ".")
	if !strings.HasPrefix(domain, dnsaddrDomainPrefix) {
		domain = dnsaddrDomainPrefix + domain
	}
	return domain
}
