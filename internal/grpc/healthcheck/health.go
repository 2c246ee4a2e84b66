// Package healthcheck registers the standard gRPC health service so load
// balancers and orchestration probes can query serving status.
package healthcheck

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"phishguard/internal/infrastructure/cache"
	"phishguard/internal/infrastructure/database"
)

const serviceName = "phishguard.v1.ScanService"

// Register registers the gRPC health check service and starts a
// background dependency checker
func Register(ctx context.Context, grpcServer *grpc.Server, db *database.PostgresDB, redisCache *cache.RedisCache) {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			status := grpc_health_v1.HealthCheckResponse_SERVING
			if db != nil {
				if err := db.Ping(ctx); err != nil {
					status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
				}
			}
			if redisCache != nil {
				if err := redisCache.Ping(ctx); err != nil {
					status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
				}
			}

			healthServer.SetServingStatus("", status)
			healthServer.SetServingStatus(serviceName, status)
		}
	}()

	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
}
