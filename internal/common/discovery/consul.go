package discovery

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/consul/api"
	"google.golang.org/grpc/resolver"
)

const consulScheme = "consul"

// ConsulResolver 基于 Consul 健康检查的 gRPC 服务解析器
type ConsulResolver struct {
	client  *api.Client
	cc      resolver.ClientConn
	service string

	mu      sync.Mutex
	watcher *consulWatcher
}

type consulWatcher struct {
	client    *api.Client
	service   string
	lastIndex uint64
	done      chan struct{}
	closeOnce sync.Once
}

// NewConsulResolver 创建并注册 Consul 解析器
func NewConsulResolver(client *api.Client, service string, cc resolver.ClientConn) *ConsulResolver {
	r := &ConsulResolver{
		client:  client,
		cc:      cc,
		service: service,
	}
	resolver.Register(r)
	return r
}

// Build 构建解析器并启动后台 watch
func (r *ConsulResolver) Build(target resolver.Target, cc resolver.ClientConn, opts resolver.BuildOptions) (resolver.Resolver, error) {
	w := &consulWatcher{
		client:  r.client,
		service: r.service,
		done:    make(chan struct{}),
	}

	r.mu.Lock()
	r.watcher = w
	r.mu.Unlock()

	go w.watch(cc)
	return r, nil
}

// Scheme 返回 scheme
func (r *ConsulResolver) Scheme() string {
	return consulScheme
}

// ResolveNow 立即解析（watch 循环已覆盖，无需额外动作）
func (r *ConsulResolver) ResolveNow(resolver.ResolveNowOptions) {}

// Close 停止后台 watch
func (r *ConsulResolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watcher != nil {
		r.watcher.stop()
		r.watcher = nil
	}
}

func (w *consulWatcher) stop() {
	w.closeOnce.Do(func() { close(w.done) })
}

func (w *consulWatcher) watch(cc resolver.ClientConn) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	w.update(cc)
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.update(cc)
		}
	}
}

func (w *consulWatcher) update(cc resolver.ClientConn) {
	// 只取健康实例
	services, meta, err := w.client.Health().Service(w.service, "", true, &api.QueryOptions{
		WaitIndex: w.lastIndex,
	})
	if err != nil {
		return
	}
	w.lastIndex = meta.LastIndex

	addrs := make([]resolver.Address, 0, len(services))
	for _, svc := range services {
		addrs = append(addrs, resolver.Address{
			Addr: fmt.Sprintf("%s:%d", svc.Service.Address, svc.Service.Port),
		})
	}

	// 全部实例不健康时保留旧地址，避免把连接清空
	if len(addrs) > 0 {
		_ = cc.UpdateState(resolver.State{Addresses: addrs})
	}
}

// ServiceRegistry Consul 服务注册
type ServiceRegistry struct {
	client    *api.Client
	serviceID string
	service   string
	address   string
	port      int
	tags      []string
	check     *api.AgentServiceCheck
}

// NewServiceRegistry 创建服务注册器（默认挂 gRPC 健康检查）
func NewServiceRegistry(client *api.Client, serviceID, service, address string, port int, tags []string) *ServiceRegistry {
	return &ServiceRegistry{
		client:    client,
		serviceID: serviceID,
		service:   service,
		address:   address,
		port:      port,
		tags:      tags,
		check: &api.AgentServiceCheck{
			GRPC:                           fmt.Sprintf("%s:%d", address, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}
}

// Register 注册服务
func (r *ServiceRegistry) Register() error {
	registration := &api.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    r.service,
		Tags:    r.tags,
		Address: r.address,
		Port:    r.port,
		Check:   r.check,
	}
	return r.client.Agent().ServiceRegister(registration)
}

// Deregister 注销服务
func (r *ServiceRegistry) Deregister() error {
	return r.client.Agent().ServiceDeregister(r.serviceID)
}

// NewConsulClient 创建 Consul 客户端
func NewConsulClient(host string, port int) (*api.Client, error) {
	cfg := api.DefaultConfig()
	cfg.Address = fmt.Sprintf("%s:%d", host, port)
	return api.NewClient(cfg)
}
