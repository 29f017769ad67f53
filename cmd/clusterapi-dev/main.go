// Command clusterapi-dev serves an in-memory cluster management backend with
// demo data, for trying clusterctl without cloud credentials.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi/fakeserver"
	"github.com/telekom/k8s-cluster-ui/pkg/version"
)

const shutdownGracePeriod = 5 * time.Second

func main() {
	var (
		port  int
		debug bool
		seed  bool
	)
	flag.IntVar(&port, "port", 8000, "Listen port")
	flag.BoolVar(&debug, "debug", false, "enable debug level logging")
	flag.BoolVar(&seed, "seed", true, "register demo clusters and resources")
	flag.Parse()

	zl := setupLogger(debug)
	log := zl.Sugar()
	log.With("version", version.Version).Info("Starting cluster API dev backend")

	backend := fakeserver.New(zl)
	if seed {
		seedDemo(backend)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", srv.Addr, err)
	}
	log.Infow("Listening", "addr", ln.Addr().String())
	if err := serve(ctx, srv, ln, log); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Info("Server stopped")
}

// serve runs srv on ln until ctx is done, then shuts it down and returns only
// once in-flight requests have drained or the grace period expired.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.SugaredLogger) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Shutdown failed", "error", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown starts.
	<-drained
	return nil
}

func seedDemo(backend *fakeserver.Server) {
	created := metav1.NewTime(time.Now().Add(-72 * time.Hour).Truncate(time.Second))

	backend.AddEKSCluster("us-east-1", clusterapi.AvailableCluster{
		Name: "demo", Status: "ACTIVE", Version: "1.29",
		Endpoint: "https://demo.eks.example.com", CreatedAt: &created,
	})
	backend.AddGKECluster("demo-project", "europe-west1-b", clusterapi.AvailableCluster{
		Name: "demo-gke", Status: "RUNNING", Version: "1.29.1-gke.1",
		Location: "europe-west1-b", CreatedAt: &created,
	})

	for _, name := range []string{"demo", "demo-gke"} {
		backend.AddResources(name, clusterapi.ResourcePods,
			clusterapi.Pod{Name: "web-0", Namespace: "default", Status: corev1.PodRunning, Containers: []string{"web"}, Node: "node-1", CreatedAt: &created},
			clusterapi.Pod{Name: "worker-0", Namespace: "jobs", Status: corev1.PodPending, Containers: []string{"worker"}, Node: "Not scheduled", CreatedAt: &created},
		)
		backend.AddResources(name, clusterapi.ResourceDeployments,
			clusterapi.Deployment{Name: "web", Namespace: "default", Replicas: ptr.To[int32](2), AvailableReplicas: 1, CreatedAt: &created},
		)
		backend.AddResources(name, clusterapi.ResourceServices,
			clusterapi.Service{Name: "web", Namespace: "default", Type: corev1.ServiceTypeClusterIP, ClusterIP: "10.0.0.10",
				Ports: []clusterapi.ServicePort{{Port: 80, TargetPort: intstr.FromInt32(8080), Protocol: corev1.ProtocolTCP}}, CreatedAt: &created},
		)
		backend.AddResources(name, clusterapi.ResourceNodes,
			clusterapi.Node{Name: "node-1", Status: "Ready", Roles: []string{"worker"}, InstanceType: "m5.large", Zone: "a", KubeletVersion: "v1.29.0", CreatedAt: &created},
		)
	}
}

func setupLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return logger
}
