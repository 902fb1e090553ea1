package main

import (
	"flag"
	"fmt"

	"google.golang.org/grpc"

	"github.com/ToolShare/ToolShare/internal/booking"
	"github.com/ToolShare/ToolShare/internal/common/config"
	"github.com/ToolShare/ToolShare/internal/common/db"
	"github.com/ToolShare/ToolShare/internal/common/logger"
	"github.com/ToolShare/ToolShare/internal/common/server"
	"github.com/ToolShare/ToolShare/internal/common/tracing"
	"github.com/ToolShare/ToolShare/internal/tool"
)

var (
	configPath  = flag.String("config", "configs/rental-service.json", "配置文件路径")
	consulHost  = flag.String("consul-host", "", "Consul 地址（配 -consul-kv-key 使用）")
	consulPort  = flag.Int("consul-port", 8500, "Consul 端口")
	consulKVKey = flag.String("consul-kv-key", "", "Consul KV 配置 key，优先于本地配置文件")
)

func main() {
	flag.Parse()

	// 加载配置：优先 Consul KV，其次本地文件（缺省时用内置默认值）
	var (
		cfg *config.Config
		err error
	)
	if *consulKVKey != "" {
		cfg, err = config.LoadConfigFromConsulKV(*consulHost, *consulPort, *consulKVKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Driver, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(&tool.Tool{}, &booking.Booking{}, &booking.BookingItem{}); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	toolRepo := tool.NewRepo(gormDB)
	toolSvc := tool.NewService(toolRepo)
	bookingRepo := booking.NewRepo(gormDB)
	bookingSvc := booking.NewService(bookingRepo, toolRepo)

	// 启动统一的 gRPC 服务模板
	if err := server.RunGRPCServer(cfg, log, func(s *grpc.Server) error {
		// TODO: 业务 proto 定稿后在此注册 rental-service 的 gRPC 服务
		// pb.RegisterRentalServiceServer(s, rentalapi.NewServer(bookingSvc, toolSvc))
		_ = bookingSvc
		_ = toolSvc
		return nil
	}); err != nil {
		log.Fatalf("rental-service exited with error: %v", err)
	}
}
