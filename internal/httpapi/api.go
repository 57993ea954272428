package httpapi

import (
	"github.com/rs/zerolog"

	"quickquiz/internal/quiz"
)

type API struct {
	service *quiz.Service
	log     zerolog.Logger
}

func NewAPI(service *quiz.Service, log zerolog.Logger) *API {
	return &API{
		service: service,
		log:     log,
	}
}
