package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shiftwise/scheduler/internal/config"
	"github.com/shiftwise/scheduler/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notifyCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/createUser", h.CreateUser)
			r.Post("/loginUser", h.Login)
			r.Post("/forgotPassword", h.ForgotPassword)
			r.Post("/updatePassword", h.UpdatePassword)
			r.Post("/verification", h.VerifyEmail)
			r.With(h.auth, h.myInfo).Get("/getUserDetails", h.GetUserDetails)
		})

		// Everything below requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Use(h.myInfo)

			r.Route("/schedules", func(r chi.Router) {
				r.Post("/create", h.CreateSchedule)
				r.Get("/", h.GetMySchedules)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.schedule)
					r.Get("/", h.GetSchedule)
					r.With(h.requireScheduleOwner).Patch("/", h.UpdateSchedule)
					r.With(h.requireScheduleOwner).Delete("/", h.DeleteSchedule)
					r.With(h.requireScheduleOwner).Post("/generate-arrangement", h.GenerateArrangement)
					r.Get("/arrangement", h.GetArrangement)
				})
			})

			r.Route("/priorities", func(r chi.Router) {
				r.Post("/create", h.SubmitPriority)
				r.Get("/", h.GetSchedulePriorities)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.priority)
					r.Patch("/", h.UpdatePriority)
					r.Delete("/", h.DeletePriority)
				})
			})

			r.Route("/users/{id}/builds", func(r chi.Router) {
				r.Use(h.requireSelf)
				r.Get("/", h.GetBuildCount)
				r.Post("/increment", h.IncrementBuildCount)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Route("/schedule/{id}", func(r chi.Router) {
					r.Use(h.schedule)
					r.Get("/", h.GetScheduleEmployees)
					r.With(h.requireScheduleOwner).Post("/add", h.AddScheduleEmployee)
				})
				r.Delete("/{employeeID}", h.DeleteScheduleEmployee)
			})
		})
	})
}
