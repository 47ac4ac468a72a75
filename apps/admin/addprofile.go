package main

import (
	"context"
	"fmt"

	"github.com/kidspro/kidspro/core/game"
)

func (cli *commandLine) addProfile(np game.NewProfile) error {
	if err := cli.validate.Struct(np); err != nil {
		return err
	}
	prof, err := cli.gameSvc.CreateProfile(context.Background(), np)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "profile %d created for student %d (%s)\n", prof.ID, prof.StudentID, prof.DisplayName)
	return nil
}
