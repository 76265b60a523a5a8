package godispatch

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

var outlog = log.New(os.Stdout, fmt.Sprintf("INFO [%s] ", "GODISPATCH"), log.Ldate|log.Ltime|log.Lshortfile)
var errlog = log.New(os.Stderr, fmt.Sprintf("ERROR [%s] ", "GODISPATCH"), log.Ldate|log.Ltime|log.Lshortfile)

// Engine is the dispatcher: it owns the group list (the embedded
// RouterGroup is the implicit default at position zero), the
// application-tier middleware scope, and the single request entry point.
// Registration is expected to finish before the listener starts; the
// registries are read-only during dispatch.
type Engine struct {
	ErrorPageFunc
	RouterGroup
	groups            []*RouterGroup
	middlewares       []Middleware
	errorMiddlewares  []ErrorMiddleware
	ConcurrenceNumSem chan int
}

type HandlerFunc func(*Context)

// New creates an engine with no concurrency cap.
func New() *Engine {
	engine := &Engine{}
	engine.RouterGroup.index = map[string]int{}
	engine.groups = []*RouterGroup{&engine.RouterGroup}
	return engine
}

// Default creates an engine capped at five concurrent requests, shedding
// load with a 502 after one second of waiting.
func Default() *Engine {
	engine := New()
	engine.ConcurrenceNumSem = make(chan int, 5)
	return engine
}

// Use appends an application-tier middleware, deduplicated by identity.
// It shadows the embedded default group's Use: attach group-tier
// middleware through a RouterGroup directly.
func (engine *Engine) Use(m Middleware) {
	for _, cur := range engine.middlewares {
		if sameStage(cur, m) {
			return
		}
	}
	engine.middlewares = append(engine.middlewares, m)
}

// UseForError appends an application-tier recovery stage, deduplicated by
// identity.
func (engine *Engine) UseForError(m ErrorMiddleware) {
	for _, cur := range engine.errorMiddlewares {
		if sameStage(cur, m) {
			return
		}
	}
	engine.errorMiddlewares = append(engine.errorMiddlewares, m)
}

// UseGroup appends a route group after the default one. Groups are
// consulted for a match in the order they were added.
func (engine *Engine) UseGroup(group *RouterGroup) {
	for _, cur := range engine.groups {
		if cur == group {
			return
		}
	}
	engine.groups = append(engine.groups, group)
}

func (engine *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	context := &Context{
		Engine:  engine,
		Request: req,
		Writer:  w,
		CT:      time.Now(),
		RawPath: req.URL.RequestURI(),
	}
	if engine.ConcurrenceNumSem == nil {
		engine.dispatch(context)
		return
	}
	timeout := make(chan bool, 1)
	go func() {
		time.Sleep(1 * time.Second)
		timeout <- true
	}()
	select {
	case engine.ConcurrenceNumSem <- 1:
		engine.dispatch(context)
		<-engine.ConcurrenceNumSem
	case <-timeout:
		context.ShowErrorPage(http.StatusBadGateway, "server overload")
	}
}

func safelyHandle(hf HandlerFunc, c *Context) {
	outlog.Println(fmt.Sprintf("start processing request->ip:%s path:%s", c.Request.RemoteAddr, c.RawPath))
	defer func() {
		outlog.Println(fmt.Sprintf("end processing request->ip:%s path:%s", c.Request.RemoteAddr, c.RawPath))
		if err := recover(); err != nil {
			errlog.Println(err)
			c.ShowErrorPage(http.StatusBadGateway, "server error")
		}
	}()
	hf(c)
}
