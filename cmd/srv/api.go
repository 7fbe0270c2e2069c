package main

import (
	"log"
	"net/http"

	"github.com/fundraisely/backend/api"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadAuth()
	s.loadRepos()
	s.loadChain()
	s.loadDomains()

	router := api.NewRouter(s.ctx)

	// Host APIs.
	api.AuthPOST(router, "/createRoom", s.roomDomain.Create)
	api.AuthPOST(router, "/recordPayment", s.roomDomain.RecordPayment)
	api.AuthPOST(router, "/startRoom", s.roomDomain.Start)
	api.AuthPOST(router, "/declareWinners", s.roomDomain.DeclareWinners)
	api.AuthPOST(router, "/endRoom", s.roomDomain.End)
	api.AuthPOST(router, "/recoverRoom", s.roomDomain.Recover)
	api.AuthGET(router, "/getReconciliation", s.roomDomain.Reconciliation)

	// Player APIs.
	api.POST(router, "/joinRoom", s.roomDomain.Join)
	api.GET(router, "/getRoom", s.roomDomain.Get)
	api.GET(router, "/getFeePreview", s.roomDomain.FeePreview)

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: router.Handler(),
	}

	log.Printf("Starting api server on %s\n", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}
	log.Println("server stop")
	return nil
}
