package cron

import (
	"Bandwall/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	spec            string
	commentCountJob *job.CommentCountJob
}

func NewCronManager(spec string, commentCountJob *job.CommentCountJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:            spec,
		commentCountJob: commentCountJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.spec, s.commentCountJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started", "reconcile_spec", s.spec)
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("cron engine stopping")
	<-s.engine.Stop().Done()
}
