package monitor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pointW/rdd-rl/types"
)

// Server exposes live training statistics over HTTP while the agent trains.
// The training loop publishes episode stats through Publish, HTTP handlers
// only ever read a mutex-guarded copy, so the agent itself stays
// single-threaded.
type Server struct {
	lock     *sync.Mutex
	episodes []types.EpisodeStats
	server   *http.Server
}

func NewServer(addr string) *Server {
	s := &Server{
		lock:     new(sync.Mutex),
		episodes: make([]types.EpisodeStats, 0),
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/status", s.handleStatus)
	router.GET("/episodes", s.handleEpisodes)
	s.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return s
}

// Publish records the stats of a completed episode. Safe to call from the
// training loop while handlers are serving.
func (s *Server) Publish(stats types.EpisodeStats) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.episodes = append(s.episodes, stats)
}

func (s *Server) handleStatus(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.episodes) == 0 {
		c.JSON(http.StatusOK, gin.H{"episodes_done": 0})
		return
	}
	last := s.episodes[len(s.episodes)-1]
	c.JSON(http.StatusOK, gin.H{
		"episodes_done": last.Episode,
		"steps_done":    last.StepsDone,
		"epsilon":       last.Epsilon,
		"last_reward":   last.Reward,
		"last_length":   last.Length,
		"memory_size":   last.MemorySize,
	})
}

func (s *Server) handleEpisodes(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]types.EpisodeStats, len(s.episodes))
	copy(out, s.episodes)
	c.JSON(http.StatusOK, out)
}

// Start serves in the background until Stop is called.
func (s *Server) Start() {
	go func() {
		s.server.ListenAndServe()
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.server.Shutdown(ctx)
}
