package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/moodsync-server/internal/core"
)

// ServiceInfo describes the running service for / and /health.
type ServiceInfo struct {
	Version     string
	Environment string
	Database    string
	AIModel     string
	// AIState reports the text generation circuit state; nil omits it.
	AIState func() string
	Started time.Time
}

// EndpointCatalogue groups the public routes by area.
type EndpointCatalogue struct {
	Auth     []string `json:"auth"`
	AI       []string `json:"ai"`
	Data     []string `json:"data"`
	Utility  []string `json:"utility"`
	Realtime []string `json:"realtime"`
}

var endpoints = EndpointCatalogue{
	Auth: []string{"POST /register", "POST /login"},
	AI: []string{
		"POST /api/ai-girlfriend/motivational",
		"POST /api/ai-girlfriend/greeting",
		"POST /api/ai-girlfriend/task-completion",
		"POST /api/ai-girlfriend/all-tasks-completed",
		"POST /api/ai-girlfriend/chat",
		"POST /api/wellness-coach/advice",
		"POST /api/mood-chat/support",
	},
	Data: []string{
		"POST /api/mood",
		"GET /api/mood/:userId",
		"POST /api/conversation/log",
	},
	Utility:  []string{"GET /", "GET /health", "GET /metrics", "GET /users"},
	Realtime: []string{"GET /ws"},
}

var features = []string{
	"User Authentication",
	"AI Girlfriend Support",
	"Wellness Coaching",
	"Mood Tracking",
	"Real-time Chat",
}

// InfoHandlers serves the service description, health and 404 routes.
type InfoHandlers struct {
	info  ServiceInfo
	stats func() core.Stats
	now   func() time.Time
}

// NewInfoHandlers creates info handlers. stats reports live websocket counts.
func NewInfoHandlers(info ServiceInfo, stats func() core.Stats) *InfoHandlers {
	if info.Started.IsZero() {
		info.Started = time.Now()
	}
	return &InfoHandlers{info: info, stats: stats, now: time.Now}
}

type rootResponse struct {
	Name      string            `json:"name"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Features  []string          `json:"features"`
	Endpoints EndpointCatalogue `json:"endpoints"`
	Timestamp string            `json:"timestamp"`
	Database  string            `json:"database"`
}

type healthServices struct {
	AI          string `json:"ai"`
	AIState     string `json:"aiState,omitempty"`
	Database    string `json:"database"`
	Environment string `json:"environment"`
}

type websocketStats struct {
	Connections int `json:"connections"`
	Identified  int `json:"identified"`
	Rooms       int `json:"rooms"`
}

type healthResponse struct {
	Status    string         `json:"status"`
	Uptime    float64        `json:"uptime"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
	Version   string         `json:"version"`
	Websocket websocketStats `json:"websocket"`
}

type notFoundResponse struct {
	Success            bool              `json:"success"`
	Message            string            `json:"message"`
	Path               string            `json:"path"`
	Method             string            `json:"method"`
	AvailableEndpoints EndpointCatalogue `json:"availableEndpoints"`
	Timestamp          string            `json:"timestamp"`
}

// Root handles GET /.
func (h *InfoHandlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, rootResponse{
		Name:      "MoodSync API",
		Message:   "MoodSync Server is running!",
		Version:   h.info.Version,
		Status:    "healthy",
		Features:  features,
		Endpoints: endpoints,
		Timestamp: nowTimestamp(),
		Database:  h.info.Database,
	})
}

// Health handles GET /health.
func (h *InfoHandlers) Health(c *gin.Context) {
	stats := h.stats()
	services := healthServices{
		AI:          h.info.AIModel,
		Database:    h.info.Database,
		Environment: h.info.Environment,
	}
	if h.info.AIState != nil {
		services.AIState = h.info.AIState()
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Uptime:    h.now().Sub(h.info.Started).Seconds(),
		Timestamp: nowTimestamp(),
		Services:  services,
		Version:   h.info.Version,
		Websocket: websocketStats{
			Connections: stats.Connections,
			Identified:  stats.Identified,
			Rooms:       stats.Rooms,
		},
	})
}

// NotFound answers unknown routes with the endpoint catalogue.
func (h *InfoHandlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, notFoundResponse{
		Message:            "Endpoint not found",
		Path:               c.Request.URL.Path,
		Method:             c.Request.Method,
		AvailableEndpoints: endpoints,
		Timestamp:          nowTimestamp(),
	})
}
