package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ecowattch-server/auth"
	"ecowattch-server/cache"
	"ecowattch-server/confs"
	"ecowattch-server/handlers"
	httpHandler "ecowattch-server/handlers/http"
	"ecowattch-server/logger"
	"ecowattch-server/repositories"
	"ecowattch-server/services"
	"ecowattch-server/usecases"
	"ecowattch-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Repositories are the store-backed dependencies of the server.
type Repositories struct {
	Users     repositories.UserRepository
	Dorms     repositories.DormRepository
	Offerings repositories.OfferingRepository
}

type Server struct {
	app       *gin.Engine
	http      *http.Server
	publisher *services.StandingsPublisher
	cfg       *confs.Config
	log       *logger.Logger
}

func NewServer(cfg *confs.Config, repos Repositories, log *logger.Logger) (*Server, error) {
	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app: gin.New(),
		cfg: cfg,
		log: log,
	}
	s.app.Use(gin.Recovery(), requestLogger(log))

	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	s.app.Use(cors.New(config))

	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	// Standings push
	manager := ws.NewManager()
	publisher := services.NewStandingsPublisher(repos.Dorms, manager, log)
	s.publisher = publisher

	// Use cases
	accountUseCase := usecases.NewAccountUseCase(repos.Users, hasher)
	pointsUseCase := usecases.NewPointsUseCase(repos.Users, repos.Dorms, publisher)
	paletteCache := cache.NewPaletteCache(cfg.PaletteCacheTTL)
	catalogUseCase := usecases.NewCatalogUseCase(repos.Offerings, paletteCache)

	// Handlers
	accountHandler := httpHandler.NewAccountHandler(accountUseCase, log)
	pointsHandler := httpHandler.NewPointsHandler(pointsUseCase, log)
	paletteHandler := httpHandler.NewPaletteHandler(catalogUseCase, log)
	cacheHandler := handlers.NewCacheHandler(catalogUseCase, paletteCache, log)
	wsHandler := handlers.NewWSHandler(manager, publisher, log)

	s.app.POST("/signup", accountHandler.Signup)
	s.app.POST("/login", accountHandler.Login)

	s.app.POST("/dorm_points", pointsHandler.IncrementDormPoints)
	s.app.GET("/dorm_points", pointsHandler.GetStandings)
	s.app.POST("/update_user_points", pointsHandler.UpdateUserPoints)
	s.app.POST("/purchase_palette", pointsHandler.PurchasePalette)

	palettes := s.app.Group("/palettes")
	{
		palettes.GET("", paletteHandler.GetPalettes)
		palettes.POST("/refresh", cacheHandler.RefreshPalettes)
		palettes.GET("/cache", cacheHandler.GetCacheStats)
	}

	s.app.GET("/ws/standings", wsHandler.HandleStandingsWS)
	s.app.GET("/ws/standings/subscribers", wsHandler.GetSubscribers)

	s.http = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.app,
	}
	// Hijacked websocket connections are not tracked by Shutdown.
	s.http.RegisterOnShutdown(manager.CloseAll)

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Run serves until ctx is canceled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	go s.publisher.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down http server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
