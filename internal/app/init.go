package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http"
	adminController "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http/controllers/admin"
	healthcheckController "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http/controllers/healthcheck"
	intakeController "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http/controllers/intake"
	messagesController "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http/controllers/messages"
	slackController "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http/controllers/slack"
	kafkaConsumerAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/kafka"
	slackAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/slack"
	"github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/storage/redis"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/cache"
	kafkaPorts "github.com/admin/slack-bots/dispatch-bot/internal/ports/kafka"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/repository"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
	messageRepo "github.com/admin/slack-bots/dispatch-bot/internal/repository/message"
	requestRepo "github.com/admin/slack-bots/dispatch-bot/internal/repository/request"
	statusRepo "github.com/admin/slack-bots/dispatch-bot/internal/repository/status"
	alerterService "github.com/admin/slack-bots/dispatch-bot/internal/services/alerter"
	identityService "github.com/admin/slack-bots/dispatch-bot/internal/services/identity"
	jobScheduler "github.com/admin/slack-bots/dispatch-bot/internal/services/jobs"
	slackService "github.com/admin/slack-bots/dispatch-bot/internal/services/slack"
	dispatchUsecase "github.com/admin/slack-bots/dispatch-bot/internal/usecases/dispatch"
	"github.com/jmoiron/sqlx"
)

type Dependencies struct {
	DB             *sqlx.DB
	HTTPServer     *http.Server
	KafkaProducers map[string]*kafkaAdapter.Producer
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// Имена Kafka-подключений в конфигурации
const (
	kafkaNameEvents = "request_events"  // producer событий жизненного цикла
	kafkaNameIntake = "intake_requests" // consumer intake-событий
)

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	if a.Cfg.Slack == nil || a.Cfg.Slack.BotToken == "" || a.Cfg.Slack.ChannelID == "" {
		return nil, fmt.Errorf("slack configuration is required: SLACK_BOT_TOKEN and SLACK_CHANNEL_ID must be set")
	}

	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)
	externalServices := a.initExternalServices()

	slackClient := slackAdapter.NewClient(a.Cfg.Slack.BotToken, a.Log)
	identity := identityService.New(slackClient, externalServices.Cache, a.Log)

	kafkaProducers := a.initKafkaProducers()

	var events kafkaPorts.IEventProducer
	if producer, ok := kafkaProducers[kafkaNameEvents]; ok {
		events = producer
	}

	dispatch := dispatchUsecase.New(
		repos.Request,
		repos.Message,
		repos.Status,
		slackClient,
		events,                   // может быть nil
		externalServices.Alerter, // может быть nil
		a.Cfg.Slack.ChannelID,
		a.Cfg.Slack.DashboardBaseURL,
		a.Log,
	)

	slackSvc := slackService.New(dispatch, slackClient, identity, a.Log)

	kafkaConsumers := a.initKafkaConsumers(dispatch)

	httpServer := a.initHTTP(db, slackSvc, dispatch)
	scheduler := a.initJobScheduler(externalServices.Alerter, repos.Request)

	return &Dependencies{
		DB:             db,
		HTTPServer:     httpServer,
		KafkaProducers: kafkaProducers,
		KafkaConsumers: kafkaConsumers,
		Cache:          externalServices.Cache,
		JobScheduler:   scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	Request repository.IRequestRepo
	Message repository.IMessageRepo
	Status  repository.IStatusRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		Request: requestRepo.New(persistenceLayer, a.Log),
		Message: messageRepo.New(persistenceLayer, a.Log),
		Status:  statusRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices содержит внешние сервисы (опциональные)
type externalServices struct {
	Alerter service.IAlerterService
	Cache   cache.Cache
}

// initExternalServices инициализирует внешние сервисы (Alerter, Cache)
func (a *App) initExternalServices() *externalServices {
	services := &externalServices{}

	// Alerter - опциональный
	if a.Cfg.Alerter != nil {
		alerterClient := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
		services.Alerter = alerterService.New(alerterClient)
	}

	// Redis Cache - опциональный
	if a.Cfg.Redis != nil {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to init redis cache, continuing without cache", "error", err)
		} else {
			services.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis cache connected successfully")
		}
	}

	return services
}

// initKafkaProducers инициализирует Kafka producers
func (a *App) initKafkaProducers() map[string]*kafkaAdapter.Producer {
	producers := make(map[string]*kafkaAdapter.Producer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		// Producer: есть topic, но нет consumer group
		if kafkaCfg.Config == nil || kafkaCfg.Config.Topic == "" || kafkaCfg.Config.ConsumerGroup != "" {
			continue
		}

		producer, err := kafkaAdapter.NewProducer(kafkaCfg.Config, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka producer", "error", err, "name", kafkaCfg.Name)
			continue
		}
		producers[kafkaCfg.Name] = producer
	}

	return producers
}

// initKafkaConsumers инициализирует Kafka consumers
func (a *App) initKafkaConsumers(dispatch service.IDispatchService) map[string]*kafkaConsumerAdapter.Consumer {
	consumers := make(map[string]*kafkaConsumerAdapter.Consumer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		// Consumer: есть consumer group
		if kafkaCfg.Config == nil || kafkaCfg.Config.ConsumerGroup == "" {
			continue
		}

		handler := a.createHandlerForTopic(kafkaCfg.Name, dispatch)
		if handler == nil {
			a.Log.Warn("no handler for kafka topic, skipping consumer", "name", kafkaCfg.Name)
			continue
		}

		consumer, err := kafkaConsumerAdapter.NewConsumer(kafkaCfg.Config, handler, a.Log)
		if err != nil {
			a.Log.Warn("failed to create kafka consumer", "error", err, "name", kafkaCfg.Name)
			continue
		}
		consumers[kafkaCfg.Name] = consumer
	}

	return consumers
}

// createHandlerForTopic создаёт handler для указанного Kafka-подключения
func (a *App) createHandlerForTopic(name string, dispatch service.IDispatchService) kafkaPorts.MessageHandler {
	switch name {
	case kafkaNameIntake:
		return kafkaHandlers.NewIntakeRequestHandler(dispatch, a.Log)
	default:
		return nil
	}
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(
	db *sqlx.DB,
	slackSvc *slackService.Service,
	dispatch service.IDispatchService,
) *http.Server {
	seen := inmemory.NewInteractionCache()

	controllers := []server.Controller{
		healthcheckController.New(db, a.Log),
		slackController.New(slackSvc, seen, a.Cfg.Slack.SigningSecret, a.Log),
		intakeController.New(dispatch, a.Log),
		messagesController.New(dispatch, a.Log),
	}

	if a.Cfg.Admin.Token != "" {
		controllers = append(controllers, adminController.New(dispatch, a.Cfg.Admin.Token, a.Log))
	} else {
		a.Log.Warn("admin token is not set, admin endpoints disabled")
	}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, controllers...)
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(
	alerterSvc service.IAlerterService,
	requestRepo repository.IRequestRepo,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerterSvc)

	// Напоминание о долго незаклеймленных заявках, только при живом алертере
	if alerterSvc != nil {
		reminder := jobScheduler.NewOpenRequestReminder(
			requestRepo,
			alerterSvc,
			a.Cfg.Reminder.MaxAge,
			a.Cfg.Reminder.Interval,
			a.Log,
		)
		scheduler.Register(reminder)
		a.Log.Info("open request reminder job registered")
	}

	return scheduler
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
