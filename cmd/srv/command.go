package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Fundraisely"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves the room, payment and reconciliation apis.`,
		},
		{
			Action:      server.startGame,
			Name:        "game",
			Usage:       "Start service game",
			Flags:       []cli.Flag{},
			Category:    "Game",
			Description: `Serves the quiz websocket and runs the room engines.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Creates or updates the database schema.`,
		},
	}

	s.app = app
}
