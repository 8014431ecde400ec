package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KasumiMercury/primind-dose-core/internal/app"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

// ConnectivitySwitch is driven by the UI shell, which owns the platform network listener.
type ConnectivitySwitch interface {
	Online() bool
	SetOnline(online bool) bool
}

type QueueHandler struct {
	queue        app.QueueService
	connectivity ConnectivitySwitch
	upgrader     websocket.Upgrader
}

func NewQueueHandler(queue app.QueueService, connectivity ConnectivitySwitch, allowedOrigins []string) *QueueHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &QueueHandler{
		queue:        queue,
		connectivity: connectivity,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}

				_, ok := origins[origin]

				return ok
			},
		},
	}
}

func (h *QueueHandler) QueueAction(c *gin.Context) {
	slog.Info("handling queue action request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	var req QueueActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}

	input := app.QueueActionInput{
		Type:          req.Type,
		ReminderID:    req.ReminderID,
		UserID:        callerID(c),
		MedicationID:  req.MedicationID,
		ScheduledTime: req.ScheduledTime,
		TakenAt:       req.TakenAt,
		SnoozeMinutes: req.SnoozeMinutes,
		SnoozedUntil:  req.SnoozedUntil,
		Active:        req.Active,
		TimeOfDay:     req.TimeOfDay,
		DaysOfWeek:    req.DaysOfWeek,
		Timezone:      req.Timezone,
		Dosage:        req.Dosage,
		Notes:         req.Notes,
	}

	output, err := h.queue.QueueAction(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)

		return
	}

	slog.Info("action accepted",
		"action_id", output.ActionID,
		"queue_size", output.QueueSize,
	)
	c.JSON(http.StatusAccepted, QueueActionResponse{
		ActionID:  output.ActionID,
		QueueSize: output.QueueSize,
	})
}

func (h *QueueHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, FromQueueStats(h.queue.Stats(c.Request.Context())))
}

func (h *QueueHandler) ProcessQueue(c *gin.Context) {
	slog.Info("handling process queue request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	result := h.queue.ProcessQueue(c.Request.Context())
	c.JSON(http.StatusOK, FromProcessResult(result))
}

func (h *QueueHandler) ClearQueue(c *gin.Context) {
	slog.Info("handling clear queue request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	if err := h.queue.ClearQueue(c.Request.Context()); err != nil {
		handleError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) GetDeadLetters(c *gin.Context) {
	outputs, err := h.queue.DeadLetters(c.Request.Context())
	if err != nil {
		handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromDeadLetters(outputs))
}

func (h *QueueHandler) RetryDeadLetter(c *gin.Context) {
	id := c.Param("id")

	slog.Info("handling retry dead letter request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"action_id", id,
	)

	if err := h.queue.RetryDeadLetter(c.Request.Context(), app.DeadLetterInput{ID: id}); err != nil {
		handleError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) DiscardDeadLetter(c *gin.Context) {
	id := c.Param("id")

	slog.Info("handling discard dead letter request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"action_id", id,
	)

	if err := h.queue.DiscardDeadLetter(c.Request.Context(), app.DeadLetterInput{ID: id}); err != nil {
		handleError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// WatchQueue streams queue stats over a websocket: once on connect, then after every change.
func (h *QueueHandler) WatchQueue(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed",
			"error", err,
		)

		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	updates := make(chan app.QueueStats, 8)

	unsubscribe := h.queue.OnChange(func(stats app.QueueStats) {
		select {
		case updates <- stats:
		default:
			// slow reader; it will catch up on the next change
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeStats(conn, h.queue.Stats(ctx)); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case stats := <-updates:
			if err := writeStats(conn, stats); err != nil {
				slog.Debug("queue watcher disconnected",
					"error", err,
				)

				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func writeStats(conn *websocket.Conn, stats app.QueueStats) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}

	return conn.WriteJSON(FromQueueStats(stats))
}

func (h *QueueHandler) GetConnectivity(c *gin.Context) {
	c.JSON(http.StatusOK, ConnectivityResponse{Online: h.connectivity.Online()})
}

func (h *QueueHandler) SetConnectivity(c *gin.Context) {
	var req ConnectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}

	if h.connectivity.SetOnline(*req.Online) {
		slog.Info("connectivity changed",
			"online", *req.Online,
		)
	}

	c.JSON(http.StatusOK, ConnectivityResponse{Online: h.connectivity.Online()})
}

func (h *QueueHandler) RegisterRoutes(router *gin.RouterGroup, auth *Authenticator) {
	queue := router.Group("/queue", auth.RequireUser())
	{
		queue.POST("/actions", h.QueueAction)
		queue.GET("", h.GetStats)
		queue.POST("/process", h.ProcessQueue)
		queue.DELETE("", h.ClearQueue)
		queue.GET("/dead-letters", h.GetDeadLetters)
		queue.POST("/dead-letters/:id/retry", h.RetryDeadLetter)
		queue.DELETE("/dead-letters/:id", h.DiscardDeadLetter)
		queue.GET("/ws", h.WatchQueue)
	}

	router.GET("/connectivity", h.GetConnectivity)
	router.PUT("/connectivity", h.SetConnectivity)
}
