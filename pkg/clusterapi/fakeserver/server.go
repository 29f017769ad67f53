// Package fakeserver is an in-memory stand-in for the cluster management
// backend. It serves the same routes, status codes and messages as the real
// API so clients can be exercised without a cloud account.
package fakeserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/telekom/k8s-cluster-ui/pkg/clusterapi"
	"github.com/telekom/k8s-cluster-ui/pkg/system"
)

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type failure struct {
	status int
	body   any
}

type connection struct {
	info clusterapi.ClusterInfo
}

var supportedResourceTypes = []clusterapi.ResourceType{
	clusterapi.ResourcePods,
	clusterapi.ResourceDeployments,
	clusterapi.ResourceServices,
	clusterapi.ResourceNodes,
}

type Server struct {
	engine *gin.Engine
	log    *zap.Logger

	mu          sync.Mutex
	connections map[string]*connection
	// available clusters keyed by region (EKS) or "project/zone" (GKE)
	available map[string][]clusterapi.AvailableCluster
	resources map[string]map[clusterapi.ResourceType][]any
	projects  []clusterapi.Project
	zones     map[string][]string
	failures  map[string]failure
	requests  []RecordedRequest
}

func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:      gin.New(),
		log:         log,
		connections: map[string]*connection{},
		available:   map[string][]clusterapi.AvailableCluster{},
		resources:   map[string]map[clusterapi.ResourceType][]any{},
		zones:       map[string][]string{},
		failures:    map[string]failure{},
	}
	s.engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		system.RequestLogger(log.Sugar()),
		s.record,
	)

	api := s.engine.Group("api", cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}), s.injectFailures)
	// preflight requests are answered by the cors middleware
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.POST("/clusters/connect", s.connect)
	api.POST("/clusters/available", s.listAvailable)
	api.GET("/clusters", s.listClusters)
	api.POST("/clusters/:connectionId/disconnect", s.disconnect)
	api.GET("/clusters/:connectionId/resources/:resourceType", s.getResources)
	api.GET("/clusters/:connectionId/pods", s.getPods)
	api.GET("/projects", s.listProjects)
	api.GET("/projects/:projectId/zones", s.listZones)
	api.GET("/health", s.health)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// AddEKSCluster makes a cluster discoverable and connectable in region.
func (s *Server) AddEKSCluster(region string, cluster clusterapi.AvailableCluster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available[region] = append(s.available[region], cluster)
}

// AddGKECluster makes a cluster discoverable and connectable in project/zone.
func (s *Server) AddGKECluster(projectID, zone string, cluster clusterapi.AvailableCluster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := projectID + "/" + zone
	s.available[key] = append(s.available[key], cluster)
	if !s.hasProject(projectID) {
		s.projects = append(s.projects, clusterapi.Project{ProjectID: projectID, Name: projectID})
	}
	if !contains(s.zones[projectID], zone) {
		s.zones[projectID] = append(s.zones[projectID], zone)
	}
}

// AddResources seeds items returned for a cluster once it is connected.
// Items are served as given, so they should be JSON-encodable values in
// the backend's formatted shape.
func (s *Server) AddResources(clusterName string, resourceType clusterapi.ResourceType, items ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resources[clusterName] == nil {
		s.resources[clusterName] = map[clusterapi.ResourceType][]any{}
	}
	s.resources[clusterName][resourceType] = append(s.resources[clusterName][resourceType], items...)
}

// Fail makes every request to path (relative to /api) answer with status and
// body until Recover is called.
func (s *Server) Fail(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures["/api"+path] = failure{status: status, body: body}
}

func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, "/api"+path)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived yet.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.EscapedPath(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFailures(c *gin.Context) {
	s.mu.Lock()
	f, ok := s.failures[c.Request.URL.Path]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}
	if raw, isRaw := f.body.(string); isRaw {
		c.Data(f.status, "text/plain", []byte(raw))
	} else {
		c.JSON(f.status, f.body)
	}
	c.Abort()
}

func (s *Server) connect(c *gin.Context) {
	data, ok := bindData(c)
	if !ok {
		return
	}
	if _, isGKE := data["project_id"]; isGKE {
		s.connectGKE(c, data)
		return
	}
	s.connectEKS(c, data)
}

func (s *Server) connectEKS(c *gin.Context, data map[string]any) {
	clusterName, region := str(data, "cluster_name"), str(data, "region")
	if clusterName == "" || region == "" {
		badRequest(c, "cluster_name and region are required.")
		return
	}
	if !s.checkEKSAuth(c, data) {
		return
	}
	s.establish(c, region, region+"_"+clusterName, clusterName, clusterapi.ClusterInfo{Name: clusterName, Region: region})
}

func (s *Server) connectGKE(c *gin.Context, data map[string]any) {
	clusterName, projectID, zone := str(data, "cluster_name"), str(data, "project_id"), str(data, "zone")
	if clusterName == "" || projectID == "" || zone == "" {
		badRequest(c, "cluster_name, project_id and zone are required.")
		return
	}
	if !s.checkGKEAuth(c, data) {
		return
	}
	id := fmt.Sprintf("%s_%s_%s", projectID, zone, clusterName)
	s.establish(c, projectID+"/"+zone, id, clusterName, clusterapi.ClusterInfo{Name: clusterName, Region: zone})
}

func (s *Server) establish(c *gin.Context, key, id, clusterName string, info clusterapi.ClusterInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *clusterapi.AvailableCluster
	for i := range s.available[key] {
		if s.available[key][i].Name == clusterName {
			found = &s.available[key][i]
			break
		}
	}
	reqLog := system.GetReqLogger(c, s.log.Sugar())
	if found == nil {
		reqLog.Warnw("Connect to unknown cluster", "cluster", clusterName, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fmt.Sprintf("Failed to connect to cluster: cluster %s not found", clusterName),
		})
		return
	}
	info.Version = found.Version
	info.Status = found.Status
	info.Endpoint = found.Endpoint
	s.connections[id] = &connection{info: info}
	reqLog.Infow("Cluster connected", "cluster", clusterName, "connectionID", id)
	c.JSON(http.StatusOK, clusterapi.ConnectResult{
		Success:      true,
		Message:      "Successfully connected to cluster " + clusterName,
		ConnectionID: id,
	})
}

func (s *Server) listAvailable(c *gin.Context) {
	data, ok := bindData(c)
	if !ok {
		return
	}
	if _, isGKE := data["project_id"]; isGKE {
		projectID, zone := str(data, "project_id"), str(data, "zone")
		if projectID == "" || zone == "" {
			badRequest(c, "project_id and zone are required.")
			return
		}
		if !s.checkGKEAuth(c, data) {
			return
		}
		clusters := s.availableFor(projectID + "/" + zone)
		c.JSON(http.StatusOK, clusterapi.AvailableClusters{
			Success: true, ProjectID: projectID, Zone: zone, Clusters: clusters, Count: len(clusters),
		})
		return
	}
	region := str(data, "region")
	if region == "" {
		badRequest(c, "Region is required.")
		return
	}
	if !s.checkEKSAuth(c, data) {
		return
	}
	clusters := s.availableFor(region)
	c.JSON(http.StatusOK, clusterapi.AvailableClusters{
		Success: true, Region: region, Clusters: clusters, Count: len(clusters),
	})
}

func (s *Server) availableFor(key string) []clusterapi.AvailableCluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]clusterapi.AvailableCluster, len(s.available[key]))
	copy(out, s.available[key])
	return out
}

func (s *Server) checkEKSAuth(c *gin.Context, data map[string]any) bool {
	authType := str(data, "auth_type")
	if authType == "" {
		authType = "credentials"
	}
	switch authType {
	case "credentials":
		if str(data, "aws_access_key_id") == "" || str(data, "aws_secret_access_key") == "" {
			badRequest(c, "AWS credentials required.")
			return false
		}
	case "profile":
	default:
		badRequest(c, fmt.Sprintf("Unsupported auth type: %s.", authType))
		return false
	}
	return true
}

func (s *Server) checkGKEAuth(c *gin.Context, data map[string]any) bool {
	switch authType := str(data, "auth_type"); authType {
	case "service_account":
		if str(data, "service_account_key") == "" {
			badRequest(c, "Service account key required.")
			return false
		}
	case "gcloud":
	default:
		badRequest(c, fmt.Sprintf("Unsupported auth type: %s.", authType))
		return false
	}
	return true
}

func (s *Server) listClusters(c *gin.Context) {
	s.mu.Lock()
	clusters := make([]clusterapi.ClusterConnection, 0, len(s.connections))
	for id, conn := range s.connections {
		clusters = append(clusters, clusterapi.ClusterConnection{ConnectionID: id, ClusterInfo: conn.info})
	}
	s.mu.Unlock()
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ConnectionID < clusters[j].ConnectionID })
	c.JSON(http.StatusOK, clusterapi.ClusterList{Success: true, Clusters: clusters})
}

func (s *Server) disconnect(c *gin.Context) {
	id := c.Param("connectionId")
	s.mu.Lock()
	conn, ok := s.connections[id]
	delete(s.connections, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, clusterapi.DisconnectResult{Success: false, Message: "Cluster not connected"})
		return
	}
	system.GetReqLogger(c, s.log.Sugar()).Infow("Cluster disconnected", "connectionID", id)
	c.JSON(http.StatusOK, clusterapi.DisconnectResult{Success: true, Message: "Disconnected from cluster " + conn.info.Name})
}

func (s *Server) getResources(c *gin.Context) {
	resourceType := clusterapi.ResourceType(c.Param("resourceType"))
	if !clusterapi.KnownResourceTypes.Has(resourceType) {
		known := make([]string, 0, len(supportedResourceTypes))
		for _, t := range supportedResourceTypes {
			known = append(known, string(t))
		}
		badRequest(c, "Invalid resource type. Supported: "+strings.Join(known, ", "))
		return
	}
	s.serveResources(c, c.Param("connectionId"), resourceType)
}

func (s *Server) getPods(c *gin.Context) {
	s.serveResources(c, c.Param("connectionId"), clusterapi.ResourcePods)
}

func (s *Server) serveResources(c *gin.Context, id string, resourceType clusterapi.ResourceType) {
	s.mu.Lock()
	conn, ok := s.connections[id]
	var items []any
	if ok {
		items = append(items, s.resources[conn.info.Name][resourceType]...)
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cluster not connected"})
		return
	}
	if items == nil {
		items = []any{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"resource_type": resourceType,
		"count":         len(items),
		"items":         items,
	})
}

func (s *Server) listProjects(c *gin.Context) {
	s.mu.Lock()
	projects := append([]clusterapi.Project{}, s.projects...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, clusterapi.ProjectList{Success: true, Projects: projects})
}

func (s *Server) listZones(c *gin.Context) {
	projectID := c.Param("projectId")
	s.mu.Lock()
	zones, ok := s.zones[projectID]
	zones = append([]string{}, zones...)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Project not found: " + projectID})
		return
	}
	c.JSON(http.StatusOK, clusterapi.ZoneList{Success: true, ProjectID: projectID, Zones: zones})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, clusterapi.HealthStatus{Status: "ok", Message: "API is running"})
}

func (s *Server) hasProject(projectID string) bool {
	for _, p := range s.projects {
		if p.ProjectID == projectID {
			return true
		}
	}
	return false
}

func bindData(c *gin.Context) (map[string]any, bool) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil || len(data) == 0 {
		badRequest(c, "No data provided")
		return nil, false
	}
	return data, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func str(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
