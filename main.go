package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SNTejaswi/MERN-CHAT-APP/global"
	"github.com/SNTejaswi/MERN-CHAT-APP/logger"
	mid "github.com/SNTejaswi/MERN-CHAT-APP/middleware"
	chatapi "github.com/SNTejaswi/MERN-CHAT-APP/module/chat"
	msgapi "github.com/SNTejaswi/MERN-CHAT-APP/module/message"
	userapi "github.com/SNTejaswi/MERN-CHAT-APP/module/user"
	gateway "github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat/handlers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	global.ConfigIds()
	global.ConfigRedis()
	if err := global.ConfigMgo(ctx); err != nil {
		logger.Error("mongodb not ready", zap.Error(err))
		os.Exit(1)
	}

	srv := gateway.NewServer(gateway.ServerConf{
		GatewayID:   global.GatewayID(),
		PresenceTTL: global.PresenceTTL(),
		Manager:     gateway.DefaultManagerConf(),
	})
	handlers.RegisterAll(srv)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running..")
	})
	r.GET("/ws", srv.HandleWS)

	mid.POST(r, "/api/user", userapi.HandlerRegister, mid.RouteOpt{})
	mid.POST(r, "/api/user/login", userapi.HandlerLogin, mid.RouteOpt{})
	mid.GET(r, "/api/user", userapi.HandlerSearch, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/user/online/:id", userapi.HandlerOnline, mid.RouteOpt{IsAuth: true})

	mid.POST(r, "/api/chat", chatapi.HandlerAccess, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/chat", chatapi.HandlerFetch, mid.RouteOpt{IsAuth: true})
	mid.POST(r, "/api/chat/group", chatapi.HandlerCreateGroup, mid.RouteOpt{IsAuth: true})
	mid.PUT(r, "/api/chat/rename", chatapi.HandlerRename, mid.RouteOpt{IsAuth: true})
	mid.PUT(r, "/api/chat/groupadd", chatapi.HandlerGroupAdd, mid.RouteOpt{IsAuth: true})
	mid.PUT(r, "/api/chat/groupremove", chatapi.HandlerGroupRemove, mid.RouteOpt{IsAuth: true})

	mid.POST(r, "/api/message", msgapi.HandlerSend, mid.RouteOpt{IsAuth: true})
	mid.GET(r, "/api/message/:chatId", msgapi.HandlerHistory, mid.RouteOpt{IsAuth: true})

	httpSrv := &http.Server{
		Addr:    global.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Infof("server started on %s", global.HTTPAddr())
		if err := httpSrv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	srv.Stop()
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
