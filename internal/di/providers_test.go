package di

import (
	"testing"

	"account-auth-service/internal/config"
	"account-auth-service/internal/http/router"
)

func TestProvideHTTPServer(t *testing.T) {
	cfg := &config.Config{HTTPPort: "9999"}
	srv := provideHTTPServer(cfg, nil)
	if srv.Addr != ":9999" {
		t.Fatalf("unexpected addr: %s", srv.Addr)
	}
	if srv.ReadTimeout.Seconds() != 10 {
		t.Fatalf("unexpected read timeout: %v", srv.ReadTimeout)
	}
}

func TestProvideRouterDependencies(t *testing.T) {
	cfg := &config.Config{AuthRateLimitPerMin: 10, APIRateLimitPerMin: 100, DefaultLocale: "ko"}
	dep := provideRouterDependencies(nil, nil, nil, nil, nil, cfg)
	if dep.AuthRateLimitRPM != 10 || dep.APIRateLimitRPM != 100 {
		t.Fatalf("unexpected rate limits: %+v", dep)
	}
	if dep.DefaultLocale != "ko" {
		t.Fatalf("unexpected locale: %s", dep.DefaultLocale)
	}
	_ = router.Dependencies(dep)
}

func TestProvideRateLimitBackend(t *testing.T) {
	if provideRateLimitBackend(&config.Config{}) == nil {
		t.Fatal("expected local backend without redis addr")
	}
	if provideRateLimitBackend(&config.Config{RedisAddr: "127.0.0.1:6379"}) == nil {
		t.Fatal("expected redis backend with redis addr")
	}
}
