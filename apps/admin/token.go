package main

import (
	"fmt"
	"strconv"

	"github.com/kidspro/kidspro/apps/api/echo"
)

func (cli *commandLine) token(subject, name string, isAdmin bool) error {
	if id, err := strconv.Atoi(subject); err != nil || id < 1 {
		return fmt.Errorf("subject must be a student id (got '%s')", subject)
	}
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, subject, name, isAdmin))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
