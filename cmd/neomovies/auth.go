package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/neomovies/internal/auth"
)

func (e *env) authCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "log in and store the session locally",
			Flags: credentialFlags(),
			Action: func(c *cli.Context) error {
				if err := e.auth.Login(c.Context, c.String("email"), c.String("password")); err != nil {
					return e.fail(err)
				}
				return e.printSession(c)
			},
		},
		{
			Name:  "register",
			Usage: "create an account; a verification code is e-mailed",
			Flags: append(credentialFlags(), &cli.StringFlag{Name: "name"}),
			Action: func(c *cli.Context) error {
				if err := e.auth.Register(c.Context, c.String("email"), c.String("password"), c.String("name")); err != nil {
					return e.fail(err)
				}
				fmt.Fprintf(c.App.Writer, "verification code sent to %s\n", e.auth.PendingEmail())
				return nil
			},
		},
		{
			Name:      "verify",
			Usage:     "confirm the pending registration and log in",
			ArgsUsage: "<code>",
			Action: func(c *cli.Context) error {
				code := c.Args().First()
				if code == "" {
					return cli.Exit("verification code is required", 1)
				}
				if err := e.auth.VerifyCode(c.Context, code); err != nil {
					return e.fail(err)
				}
				return e.printSession(c)
			},
		},
		{
			Name:  "resend-code",
			Usage: "send a new verification code",
			Action: func(c *cli.Context) error {
				if err := e.auth.ResendCode(c.Context); err != nil {
					return e.fail(err)
				}
				fmt.Fprintf(c.App.Writer, "verification code sent to %s\n", e.auth.PendingEmail())
				return nil
			},
		},
		{
			Name:  "cancel-registration",
			Usage: "drop the pending registration",
			Action: func(c *cli.Context) error {
				if err := e.auth.CancelRegistration(); err != nil {
					return e.fail(err)
				}
				return e.printSession(c)
			},
		},
		{
			Name:  "logout",
			Usage: "forget the local session",
			Action: func(c *cli.Context) error {
				if err := e.auth.Logout(); err != nil {
					return e.fail(err)
				}
				return e.printSession(c)
			},
		},
		{
			Name:  "whoami",
			Usage: "show the stored identity",
			Action: func(c *cli.Context) error {
				return e.printSession(c)
			},
		},
		{
			Name:  "delete-account",
			Usage: "delete the account on the server and log out",
			Flags: []cli.Flag{&cli.BoolFlag{Name: "yes", Usage: "confirm deletion"}},
			Action: func(c *cli.Context) error {
				if !c.Bool("yes") {
					return cli.Exit("pass --yes to delete the account", 1)
				}
				if err := e.auth.DeleteAccount(c.Context); err != nil {
					return e.fail(err)
				}
				return e.printSession(c)
			},
		},
	}
}

func (e *env) printSession(c *cli.Context) error {
	profile, err := e.auth.Profile()
	if err != nil {
		return e.fail(err)
	}

	w := c.App.Writer
	state := e.auth.State()
	fmt.Fprintf(w, "state: %s\n", state)
	switch state {
	case auth.StateAuthenticated:
		fmt.Fprintf(w, "name:  %s\nemail: %s\n", profile.Name, profile.Email)
	case auth.StatePendingVerification:
		fmt.Fprintf(w, "email: %s\n", e.auth.PendingEmail())
	}
	if route := e.routes.Take(); route != "" {
		fmt.Fprintf(w, "next:  %s\n", route)
	}
	return nil
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "email", Required: true},
		&cli.StringFlag{
			Name:     "password",
			Required: true,
			EnvVars:  []string{"NEO_PASSWORD"},
		},
	}
}
