package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/kidspro/kidspro/core"
	"github.com/kidspro/kidspro/core/game"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf     *core.Config
	db       *sqlx.DB
	gameSvc  game.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the embedded migrations")
	fmt.Fprintln(cli.out, "  addprofile -student ID -name NAME [-coin N] [-gem N] - create a student's game profile")
	fmt.Fprintln(cli.out, "  token -subject ID [-name NAME] [-admin] - issue an API token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addProfileCmd := flag.NewFlagSet("addprofile", flag.ContinueOnError)
	addProfileCmd.SetOutput(cli.out)
	addProfileStudent := addProfileCmd.Int("student", 0, "The student's id.")
	addProfileName := addProfileCmd.String("name", "", "The name displayed in game.")
	addProfileCoin := addProfileCmd.Int("coin", 0, "Initial coins.")
	addProfileGem := addProfileCmd.Int("gem", 0, "Initial gems.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenSubject := tokenCmd.String("subject", "", "The student's id.")
	tokenName := tokenCmd.String("name", "", "The name carried by the token.")
	tokenAdmin := tokenCmd.Bool("admin", false, "Grant access to the level editor.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addprofile":
		if err := addProfileCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addProfileStudent == 0 || *addProfileName == "" {
			addProfileCmd.Usage()
			return errHelp
		}
		return cli.addProfile(game.NewProfile{
			StudentID:   *addProfileStudent,
			DisplayName: *addProfileName,
			Coin:        *addProfileCoin,
			Gem:         *addProfileGem,
		})
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenSubject == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenSubject, *tokenName, *tokenAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}
