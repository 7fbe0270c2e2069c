package main

import (
	"log"
	"net/http"

	"github.com/fundraisely/backend/internal/model"
	"github.com/fundraisely/backend/pkg/pubsub"

	"github.com/urfave/cli/v2"
)

func (s *srv) startGame(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadAuth()
	s.loadRedis()
	s.loadRepos()
	s.loadGame()

	// Actions accepted by another instance reach the engine that owns the
	// room through the action topic. Events applied there come back on the
	// event topic for the clients connected here.
	s.subscriber = pubsub.NewSubscriber(
		s.redisClient.Unwrap(), s.engineRouter.HandleActionPack, model.ActionTopic)
	go s.subscriber.Subscribe(s.ctx)

	eventSubscriber := pubsub.NewSubscriber(
		s.redisClient.Unwrap(), s.engineRouter.HandleEventPack, model.EventTopic)
	go eventSubscriber.Subscribe(s.ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/game", s.gameProxyDomain.ServeGameClient)

	s.server = &http.Server{
		Addr:    s.configs.GameServer.Address(),
		Handler: mux,
	}

	log.Printf("Starting game server on %s\n", s.configs.GameServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	log.Println("server stop")
	return nil
}
