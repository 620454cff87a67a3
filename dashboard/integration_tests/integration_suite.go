package integration_tests

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/yaron8/ksp-telemetry/dashboard/bootstrap"
	"github.com/yaron8/ksp-telemetry/dashboard/config"
	"github.com/yaron8/ksp-telemetry/logi"
)

const (
	maxRetries = 30
	retryDelay = 200 * time.Millisecond
)

type IntegrationTestSuite struct {
	suite.Suite
	baseURL   string
	redis     *miniredis.Miniredis
	bootstrap *bootstrap.Bootstrap
	logDir    string
	cancel    context.CancelFunc
	done      chan error
}

// SetupSuite runs a simulated dashboard with a Redis history in-process
func (s *IntegrationTestSuite) SetupSuite() {
	var err error
	s.logDir, err = os.MkdirTemp("", "dashboard-it")
	s.Require().NoError(err)
	_, err = logi.NewLog(&logi.Config{LogDir: s.logDir})
	s.Require().NoError(err)

	s.redis, err = miniredis.Run()
	s.Require().NoError(err)

	port := freePort(s)
	redisPort, err := strconv.Atoi(s.redis.Port())
	s.Require().NoError(err)

	cfg := &config.Config{
		Port:           port,
		UpdateInterval: 100 * time.Millisecond,
		Rollover:       50,
		CacheTTL:       time.Second,
		Simulate:       true,
	}
	cfg.Redis.Host = s.redis.Host()
	cfg.Redis.Port = redisPort
	cfg.Redis.TTL = time.Minute
	cfg.Redis.MaxRows = 100
	cfg.Kafka.Topic = "ksp-telemetry"

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.bootstrap, err = bootstrap.NewBootstrap(ctx, cfg)
	s.Require().NoError(err, "Failed to create dashboard")

	s.done = make(chan error, 1)
	go func() { s.done <- s.bootstrap.Run(ctx) }()

	s.baseURL = fmt.Sprintf("http://localhost:%d", port)
	s.T().Log("Waiting for dashboard to be ready...")
	s.waitForService(s.baseURL + "/health")
}

// TearDownSuite stops the dashboard and checks it exits cleanly
func (s *IntegrationTestSuite) TearDownSuite() {
	s.cancel()
	select {
	case err := <-s.done:
		s.NoError(err)
	case <-time.After(10 * time.Second):
		s.Fail("dashboard did not stop")
	}
	s.redis.Close()
	os.RemoveAll(s.logDir)
}

func freePort(s *IntegrationTestSuite) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// waitForService waits for a service to become available
func (s *IntegrationTestSuite) waitForService(url string) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	for i := 0; i < maxRetries; i++ {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			s.T().Logf("Service at %s is ready", url)
			return
		}
		if resp != nil {
			resp.Body.Close()
		}

		s.T().Logf("Waiting for service at %s (attempt %d/%d)...", url, i+1, maxRetries)
		time.Sleep(retryDelay)
	}

	s.Require().Fail(fmt.Sprintf("Service at %s did not become ready after %d attempts", url, maxRetries))
}
