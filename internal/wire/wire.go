package wire

import (
	"Bandwall/internal/api"
	"Bandwall/internal/api/config"
	"Bandwall/internal/api/handler"
	"Bandwall/internal/job"
	"Bandwall/internal/pkg/consts"
	"Bandwall/internal/pkg/cron"
	"Bandwall/internal/pkg/kafka"
	"Bandwall/internal/pkg/minio"
	"Bandwall/internal/pkg/notify"
	"Bandwall/internal/pkg/redis"
	"Bandwall/internal/repository"
	"Bandwall/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const reconcileTimeout = 50 * time.Second

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	CronMgr  *cron.Manager
	Worker   *job.CommentTaskWorker
	Producer *kafka.EventProducer
}

// BuildApplication 依赖 redis、minio 全局客户端已初始化
func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	objectStore := minio.NewObjectStore(minio.Client, minio.MainBucket, cfg.MinIO)
	dirtySet := redis.NewDirtySet(consts.CommentCountDirtyKey)
	taskQueue := redis.NewQueue(redis.GetRdbClient(), cfg.WorkQueue.Key)

	var publisher service.EventPublisher
	var producer *kafka.EventProducer
	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.NewEventProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		producer, publisher = p, p
	} else {
		log.Warn("kafka brokers not configured, domain events disabled")
	}

	dispatcher := service.NewEventDispatcher(publisher, taskQueue, cfg.Content.PublishTimeout)
	contentService := service.NewContentService(postRepo, commentRepo, counterRepo, objectStore, dispatcher, dirtySet, cfg.Content)
	listingService := service.NewListingService(contentService, commentRepo, objectStore,
		cfg.Content.RecentComments, cfg.Content.FanoutParallelism, cfg.Content.StorageTimeout)

	handlers := &api.HandlersGroup{
		PostHandler:    handler.NewPostHandler(contentService, listingService, objectStore, cfg.Content.MaxImageBytes),
		CommentHandler: handler.NewCommentHandler(contentService),
	}
	router := api.SetupRouter(handlers, cfg)

	commentCountJob := job.NewCommentCountJob(contentService, dirtySet, reconcileTimeout)
	cronMgr := cron.NewCronManager(cfg.Cron.ReconcileSpec, commentCountJob)

	worker := job.NewCommentTaskWorker(taskQueue, notify.NewWebhookNotifier(cfg.Notify),
		cfg.WorkQueue.BlockTimeout, cfg.WorkQueue.MaxAttempts)

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Worker:   worker,
		Producer: producer,
	}, nil
}
