package cron

import log "log/slog"

// InitCron 注册并启动定时任务，未配置对账周期时只启动空调度
func InitCron(mgr *Manager) error {
	if mgr.spec == "" {
		log.Warn("reconcile spec not configured, comment count reconciler disabled")
		mgr.Start()
		return nil
	}
	log.Info("Cron Jobs starting...")
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	return nil
}
