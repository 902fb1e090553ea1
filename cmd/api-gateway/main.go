package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/ToolShare/ToolShare/internal/common/middleware"
)

// 说明：
// 网关的完整形态是 “Kong/Nginx + gRPC-Gateway”。
// 当前仓库还没有业务 proto（只有 health），因此这里先提供一个最小可运行的 HTTP 入口骨架：
// - /healthz: 网关自身健康检查
// - /readyz:  经熔断器探测后端 rental-service 的健康端点
// 后续接入 grpc-gateway 时：
// 1) 在 internal/api/proto 下补齐业务 proto，并添加 google.api.http 注解
// 2) 用 protoc 生成 gateway handlers
// 3) 在这里初始化 grpc-gateway mux，把 HTTP 映射到后端 gRPC（并可配合 Consul 解析）

var (
	listenAddr  = flag.String("listen", ":8080", "HTTP listen address")
	backendAddr = flag.String("backend", "http://127.0.0.1:9090/healthz", "rental-service health URL")
)

func main() {
	flag.Parse()

	// 后端探测经熔断器保护，后端抖动时直接快速失败
	breaker := middleware.NewCircuitBreaker("rental-service", 5, 30*time.Second)
	client := &http.Client{Timeout: 3 * time.Second}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		err := breaker.Call(r.Context(), func() error {
			return probeBackend(r.Context(), client, *backendAddr)
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("backend not ready: %v", err), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Printf("api-gateway listening on %s\n", *listenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}

func probeBackend(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
