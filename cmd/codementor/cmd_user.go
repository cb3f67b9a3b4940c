package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/codementor/internal/domain"
	"github.com/felixgeelhaar/codementor/internal/mentor"
)

var (
	userFullName  string
	userLevel     string
	userLanguages []string
	userGoals     []string
	userSave      bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage your learner profile",
}

var userCreateCmd = &cobra.Command{
	Use:   "create USERNAME EMAIL",
	Short: "Register a learner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(false)
		if err != nil {
			return err
		}
		user, err := c.CreateUser(cmd.Context(), mentor.CreateUserRequest{
			Username:             args[0],
			Email:                args[1],
			FullName:             userFullName,
			SkillLevel:           userLevel,
			ProgrammingLanguages: userLanguages,
			LearningGoals:        userGoals,
		})
		if err != nil {
			return err
		}
		ui.Success("Created %s (%s)", user.Username, user.ID)

		if userSave {
			viper.Set("user_id", user.ID.String())
			path, err := saveConfig()
			if err != nil {
				return err
			}
			ui.Info("Saved user_id to %s", path)
		} else {
			ui.Info("Set CODEMENTOR_USER_ID=%s or rerun with --save", user.ID)
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(true)
		if err != nil {
			return err
		}
		user, err := c.Me(cmd.Context())
		if err != nil {
			return err
		}
		printUser(user)
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var update domain.UserUpdate
		if cmd.Flags().Changed("name") {
			update.FullName = &userFullName
		}
		if cmd.Flags().Changed("level") {
			update.SkillLevel = &userLevel
		}
		if cmd.Flags().Changed("languages") {
			update.ProgrammingLanguages = &userLanguages
		}
		if cmd.Flags().Changed("goals") {
			update.LearningGoals = &userGoals
		}

		c, err := newClient(true)
		if err != nil {
			return err
		}
		user, err := c.UpdateMe(cmd.Context(), update)
		if err != nil {
			return err
		}
		printUser(user)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{userCreateCmd, userUpdateCmd} {
		c.Flags().StringVar(&userFullName, "name", "", "Full name")
		c.Flags().StringVar(&userLevel, "level", "", "Skill level: beginner, intermediate or advanced")
		c.Flags().StringSliceVar(&userLanguages, "languages", nil, "Programming languages")
		c.Flags().StringSliceVar(&userGoals, "goals", nil, "Learning goals")
	}
	userCreateCmd.Flags().BoolVar(&userSave, "save", false, "Save the new user id to the CLI config")

	userCmd.AddCommand(userCreateCmd, userShowCmd, userUpdateCmd)
	rootCmd.AddCommand(userCmd)
}

func printUser(u *domain.UserProfile) {
	ui.Heading(u.Username)
	fmt.Fprintf(ui.Out, "ID:         %s\n", u.ID)
	fmt.Fprintf(ui.Out, "Email:      %s\n", u.Email)
	if u.FullName != "" {
		fmt.Fprintf(ui.Out, "Name:       %s\n", u.FullName)
	}
	fmt.Fprintf(ui.Out, "Level:      %s\n", cyan(string(u.SkillLevel)))
	fmt.Fprintf(ui.Out, "Languages:  %s\n", strings.Join(u.ProgrammingLanguages, ", "))
	fmt.Fprintf(ui.Out, "Goals:      %s\n", strings.Join(u.LearningGoals, ", "))
}
