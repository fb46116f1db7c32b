package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

// ---------------- Helper ----------------

func newTestLogger() logging.Logger {
	builder := logging.NewLoggingBuilder()
	builder.AddConsole(logging.ConsoleLoggerOptions{
		Output: os.Stdout,
	})
	factory := builder.Build()
	return factory.CreateLogger("test")
}

// ---------------- Mock Controllers ----------------

// SimpleController 普通控制器
type SimpleController struct{}

func (c *SimpleController) RegisterRoutes(router gin.IRouter) {
	router.GET("/simple", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "simple")
	})
}

func TestBuilderRoutes(t *testing.T) {
	builder := NewBuilder(newTestLogger())
	builder.Get("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
	builder.AddController(&SimpleController{})

	host := builder.Build()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	host.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/simple", nil)
	host.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "simple", w.Body.String())
}

func TestBuilderGroup(t *testing.T) {
	builder := NewBuilder(nil)
	api := builder.Group("/api")
	api.GET("/users", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"users": []string{}})
	})

	host := builder.Build()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	host.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"users":[]}`, w.Body.String())
}

func TestBuilderDefaultPort(t *testing.T) {
	host := NewBuilder(nil).Build()
	assert.Equal(t, 8080, host.Port())

	host = NewBuilder(nil).UsePort(9090).Build()
	assert.Equal(t, 9090, host.Port())
}

func TestAddWebRegistersDescriptors(t *testing.T) {
	services := di.NewServiceCollection()

	host := AddWeb(services, nil, func(b *Builder) {
		b.UsePort(8081)
	})
	assert.NotNil(t, host)

	engineDescriptor := services.First(di.TypeOf[*gin.Engine]())
	assert.NotNil(t, engineDescriptor)
	assert.Equal(t, host.Engine(), engineDescriptor.ImplementationInstance())

	hostDescriptor := services.First(di.TypeOf[*Host]())
	assert.NotNil(t, hostDescriptor)

	// 主机同时注册为托管服务
	hostedDescriptor := services.First(di.TypeOf[hosting.HostedService]())
	assert.NotNil(t, hostedDescriptor)
	assert.Equal(t, host, hostedDescriptor.ImplementationInstance())
}
