package command

import (
	"fmt"

	"github.com/gfwbrker/shadowsocks-munager/mu"
	"github.com/go-zoox/cli"
)

func RegisterNode(app *cli.MultipleProgram) {
	app.Register("node", &cli.Command{
		Name:  "node",
		Usage: "check whether the node traffic has run out",
		Flags: panelFlags(),
		Action: func(ctx *cli.Context) error {
			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			data, err := client.IsNodeTrafficRunOut(ctx.Context)
			if err != nil {
				return fmt.Errorf("failed to get node: %v", err)
			}

			return printJSON(data)
		},
	})
}

func RegisterOnline(app *cli.MultipleProgram) {
	app.Register("online-user", &cli.Command{
		Name:  "online-user",
		Usage: "report the amount of online users",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "online user count",
				Required: true,
			},
		),
		Action: func(ctx *cli.Context) error {
			amount, err := parseAmount(ctx.String("amount"))
			if err != nil {
				return err
			}

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			return printJSON(client.PostOnlineUser(ctx.Context, amount))
		},
	})

	app.Register("online-ip", &cli.Command{
		Name:  "online-ip",
		Usage: "report online client ips",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:     "data",
				Usage:    "json file with records, format: [{\"user_id\": 1, \"ip\": \"1.2.3.4\"}]",
				Required: true,
			},
		),
		Action: func(ctx *cli.Context) error {
			var ips []mu.AliveIP
			if err := readJSONFile(ctx.String("data"), &ips); err != nil {
				return err
			}

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			return printJSON(client.PostOnlineIP(ctx.Context, ips))
		},
	})
}

func RegisterUpload(app *cli.MultipleProgram) {
	app.Register("upload", &cli.Command{
		Name:  "upload",
		Usage: "upload user traffic",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:     "data",
				Usage:    "json file with records, format: [{\"user_id\": 1, \"u\": 0, \"d\": 0}]",
				Required: true,
			},
		),
		Action: func(ctx *cli.Context) error {
			var traffic []mu.Traffic
			if err := readJSONFile(ctx.String("data"), &traffic); err != nil {
				return err
			}

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			data, err := client.UploadThroughput(ctx.Context, traffic)
			if err != nil {
				return fmt.Errorf("failed to upload traffic: %v", err)
			}

			return printJSON(data)
		},
	})
}

func RegisterDelay(app *cli.MultipleProgram) {
	app.Register("delay", &cli.Command{
		Name:  "delay",
		Usage: "fetch delay samples of the node",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:  "sample",
				Usage: "sample size, overrides delay_sample",
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if v := ctx.String("sample"); v != "" {
				if cfg.DelaySample, err = parseAmount(v); err != nil {
					return err
				}
			}

			client, err := mu.New(cfg)
			if err != nil {
				return err
			}

			data, err := client.GetDelay(ctx.Context)
			if err != nil {
				return fmt.Errorf("failed to get delay: %v", err)
			}

			return printJSON(data)
		},
	})

	app.Register("delay-info", &cli.Command{
		Name:  "delay-info",
		Usage: "report delay info",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:     "form",
				Usage:    "form fields, format: key=value&key2=value2",
				Required: true,
			},
		),
		Action: func(ctx *cli.Context) error {
			form, err := parseForm(ctx.String("form"))
			if err != nil {
				return err
			}

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			return printJSON(client.PostDelayInfo(ctx.Context, form))
		},
	})
}

func RegisterLoad(app *cli.MultipleProgram) {
	app.Register("load", &cli.Command{
		Name:  "load",
		Usage: "report node load",
		Flags: panelFlags(
			&cli.StringFlag{
				Name:     "form",
				Usage:    "form fields, format: load=0.1&uptime=3600",
				Required: true,
			},
		),
		Action: func(ctx *cli.Context) error {
			form, err := parseForm(ctx.String("form"))
			if err != nil {
				return err
			}

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			return printJSON(client.PostLoad(ctx.Context, form))
		},
	})
}
