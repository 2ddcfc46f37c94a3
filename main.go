package main

import (
	"github.com/gfwbrker/shadowsocks-munager/command"
	"github.com/go-zoox/cli"
)

func main() {
	app := cli.NewMultipleProgram(&cli.MultipleProgramConfig{
		Name:    "munager",
		Usage:   "munager syncs a shadowsocks node with the mu api of the panel.",
		Version: Version,
	})

	command.RegisterUsers(app)
	command.RegisterOnline(app)
	command.RegisterUpload(app)
	command.RegisterNode(app)
	command.RegisterDelay(app)
	command.RegisterLoad(app)

	app.Run()
}
