package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/milan604/netservice/pkg/logger"
	"github.com/milan604/netservice/pkg/server"
)

// Order is the payload served by the fake API.
type Order struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

// Echo mirrors what the fake API received.
type Echo struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Query   map[string]string `json:"query"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Upload mirrors a multipart request received by the fake API.
type Upload struct {
	Fields        map[string]string `json:"fields"`
	Files         map[string]string `json:"files"`
	Token         string            `json:"token"`
	Authorization string            `json:"authorization"`
}

// API is a fake backend. Protected routes accept only the current valid token;
// /refresh-token hands out RefreshBody.
type API struct {
	*httptest.Server

	mu            sync.Mutex
	validToken    string
	refreshStatus int
	refreshBody   string
	gate          chan struct{}

	RefreshCalls atomic.Int32
	OrderCalls   atomic.Int32
}

// NewAPI starts a fake API accepting validToken. It is closed with the test.
func NewAPI(t *testing.T, validToken string) *API {
	t.Helper()

	api := &API{
		validToken:    validToken,
		refreshStatus: http.StatusOK,
		refreshBody:   `"abc123"`,
	}

	r := server.NewEngine(server.WithLogger(logger.NewNop()), server.WithRecovery(true))
	r.GET("/orders", api.requireToken, func(c *gin.Context) {
		c.JSON(http.StatusOK, Order{ID: "o-1", Total: 42})
	})
	r.GET("/orders/:id", api.requireToken, func(c *gin.Context) {
		c.JSON(http.StatusOK, Order{ID: c.Param("id"), Total: 7})
	})
	r.GET("/refresh-token", api.refresh)
	r.POST("/upload", api.upload)
	r.Any("/echo/*path", echo)
	r.Any("/status/:code", status)

	api.Server = httptest.NewServer(r)
	t.Cleanup(api.Server.Close)
	return api
}

// SetValidToken changes the token protected routes accept.
func (a *API) SetValidToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.validToken = token
}

// SetRefreshResponse changes what /refresh-token answers with.
func (a *API) SetRefreshResponse(status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshStatus = status
	a.refreshBody = body
}

// HoldRefresh makes /refresh-token block until the returned func is called.
func (a *API) HoldRefresh() (release func()) {
	gate := make(chan struct{})
	a.mu.Lock()
	a.gate = gate
	a.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (a *API) requireToken(c *gin.Context) {
	a.mu.Lock()
	valid := a.validToken
	a.mu.Unlock()

	if c.Request.URL.Path == "/orders" {
		a.OrderCalls.Add(1)
	}
	if c.GetHeader("authorization") != valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
		return
	}
	c.Next()
}

func (a *API) refresh(c *gin.Context) {
	a.RefreshCalls.Add(1)

	a.mu.Lock()
	gate, code, body := a.gate, a.refreshStatus, a.refreshBody
	a.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			return
		}
	}
	c.Data(code, "application/json", []byte(body))
}

func (a *API) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := Upload{
		Fields:        map[string]string{},
		Files:         map[string]string{},
		Token:         c.GetHeader("token"),
		Authorization: c.GetHeader("authorization"),
	}
	for k, v := range form.Value {
		out.Fields[k] = v[0]
	}
	for k, v := range form.File {
		out.Files[k] = v[0].Filename
	}
	c.JSON(http.StatusOK, out)
}

func echo(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	out := Echo{
		Method:  c.Request.Method,
		Path:    c.Param("path"),
		Query:   map[string]string{},
		Headers: map[string]string{},
		Body:    string(body),
	}
	for k, v := range c.Request.URL.Query() {
		out.Query[k] = v[0]
	}
	for k, v := range c.Request.Header {
		out.Headers[k] = v[0]
	}
	c.JSON(http.StatusOK, out)
}

// status answers with the status in the path and the "body" query as body.
func status(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Data(code, "application/json", []byte(c.Query("body")))
}
