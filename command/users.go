package command

import (
	"fmt"

	"github.com/gfwbrker/shadowsocks-munager/user"
	"github.com/go-zoox/cli"
	"github.com/go-zoox/logger"
)

func RegisterUsers(app *cli.MultipleProgram) {
	app.Register("users", &cli.Command{
		Name:  "users",
		Usage: "list users of the node",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:  "key",
				Usage: "field to index users by, one of: id, user_name, passwd, port, method",
				Value: string(user.KeyID),
			},
		),
		Action: func(ctx *cli.Context) error {
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			users, err := client.GetUsers(ctx.Context, user.Key(ctx.String("key")))
			if err != nil {
				return fmt.Errorf("failed to get users: %v", err)
			}

			available := 0
			for _, u := range users {
				if u.Available() {
					available++
				}
			}
			logger.Info("[users] %d users, %d available", len(users), available)

			return printJSON(users)
		},
	})
}
