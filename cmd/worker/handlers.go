package main

import (
	"github.com/hibiken/asynq"

	recJob "bookbuddy-backend/internal/domains/recommendation/job"
	"bookbuddy-backend/internal/shared"
	"bookbuddy-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	peerNotification *recJob.PeerNotificationHandler
	dailyDigest      *recJob.DailyDigestHandler
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		peerNotification: recJob.NewPeerNotificationHandler(c.Notifier),
		dailyDigest: recJob.NewDailyDigestHandler(
			c.RecService,
			c.UserRepo,
			c.Notifier,
			c.AsynqClient,
			c.Config.Job.DigestBatchSize,
		),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeNotifyPeerRecommendation, h.peerNotification.ProcessTask)
	mux.HandleFunc(shared.TypeDailyDigest, h.dailyDigest.ProcessTask)
}
